package models

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Employee is a single employee directory record.
//
// All numeric-looking fields are kept as strings so that upstream formatting
// (leading zeros, very large values) survives a round trip through this
// service untouched.
type Employee struct {
	// ID identifies the record within its source (upstream or fallback).
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Name is the employee's display name.
	Name string `json:"employee_name" yaml:"employee_name" mapstructure:"employee_name"`

	// Salary is the employee's salary as reported by the source.
	Salary string `json:"employee_salary" yaml:"employee_salary" mapstructure:"employee_salary"`

	// Age is the employee's age as reported by the source.
	Age string `json:"employee_age" yaml:"employee_age" mapstructure:"employee_age"`

	// ProfileImage is a reference to the employee's profile image.
	ProfileImage string `json:"profile_image" yaml:"profile_image" mapstructure:"profile_image"`
}

// Employees is an ordered list of employee records.
type Employees []Employee

// String implements fmt.Stringer.
func (e Employee) String() string {
	return fmt.Sprintf(
		"Employee{id=%q, name=%q, salary=%q, age=%q, image=%q}",
		e.ID, e.Name, e.Salary, e.Age, e.ProfileImage)
}

// EmployeeFromFields builds an employee from a free-form field map, such as a
// decoded JSON request body. Numbers are converted to their decimal string form.
// Keys that are not employee fields are rejected.
func EmployeeFromFields(fields map[string]any) (Employee, error) {
	var emp Employee
	if err := decodeEmployee(fields, &emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// decodeEmployee decodes an untyped value into an employee. Keys that are not
// employee fields and values that are neither strings nor numbers are errors.
func decodeEmployee(in any, out *Employee) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		DecodeHook:  numberToStringHook,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("error creating employee decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("error decoding employee: %w", err)
	}
	return nil
}

// numberToStringHook converts numeric values bound for string fields to their
// decimal form. json.Number already has a string kind and passes through.
func numberToStringHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}

	v := reflect.ValueOf(data)
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
	return data, nil
}
