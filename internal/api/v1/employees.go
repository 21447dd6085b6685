package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/hashicorp-forge/staffdir/internal/server"
	"github.com/hashicorp-forge/staffdir/pkg/directory"
	"github.com/hashicorp-forge/staffdir/pkg/models"
)

const (
	// EmployeesPath is the root of the employee API.
	EmployeesPath = "/api/v1/employees"

	// DeleteConfirmation is the body returned for a successful delete.
	DeleteConfirmation = "Success!"

	topEarnersCount = 10
)

// EmployeesHandler serves the employee API:
//
//	GET    /api/v1/employees
//	POST   /api/v1/employees
//	GET    /api/v1/employees/search/{name}
//	GET    /api/v1/employees/highestSalary
//	GET    /api/v1/employees/topTenHighestEarningEmployeeNames
//	GET    /api/v1/employees/{id}
//	DELETE /api/v1/employees/{id}
func EmployeesHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		segments, ok := parseResourcePath(r.URL.EscapedPath(), EmployeesPath)
		if !ok {
			http.NotFound(w, r)
			return
		}

		switch len(segments) {
		case 0:
			switch r.Method {
			case "GET":
				listEmployees(srv, w, r)
			case "POST":
				createEmployee(srv, w, r)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}

		case 1:
			switch segments[0] {
			case "highestSalary":
				if r.Method != "GET" {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				highestSalary(srv, w, r)
			case "topTenHighestEarningEmployeeNames":
				if r.Method != "GET" {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				topTenSalaries(srv, w, r)
			case "search":
				// A search needs a name.
				http.NotFound(w, r)
			default:
				switch r.Method {
				case "GET":
					getEmployee(srv, w, r, segments[0])
				case "DELETE":
					deleteEmployee(srv, w, r, segments[0])
				default:
					w.WriteHeader(http.StatusMethodNotAllowed)
				}
			}

		case 2:
			if segments[0] != "search" {
				http.NotFound(w, r)
				return
			}
			if r.Method != "GET" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			searchEmployees(srv, w, r, segments[1])

		default:
			http.NotFound(w, r)
		}
	})
}

func listEmployees(srv server.Server, w http.ResponseWriter, r *http.Request) {
	emps, err := srv.Directory.ListAll(r.Context())
	if err != nil {
		respondError(srv, w, err)
		return
	}

	writeJSON(srv, w, http.StatusOK, emps)
}

func searchEmployees(
	srv server.Server, w http.ResponseWriter, r *http.Request, name string,
) {
	emps, err := srv.Directory.Search(r.Context(), name)
	if err != nil {
		respondError(srv, w, err)
		return
	}

	// An empty result is reported as not found, with the empty list as body.
	if len(emps) == 0 {
		writeJSON(srv, w, http.StatusNotFound, emps)
		return
	}

	writeJSON(srv, w, http.StatusOK, emps)
}

func getEmployee(
	srv server.Server, w http.ResponseWriter, r *http.Request, id string,
) {
	emp, err := srv.Directory.GetByID(r.Context(), id)
	if err != nil {
		respondError(srv, w, err)
		return
	}
	if emp == nil {
		respondError(srv, w, notFoundError("GetByID", id))
		return
	}

	writeJSON(srv, w, http.StatusOK, emp)
}

func highestSalary(srv server.Server, w http.ResponseWriter, r *http.Request) {
	ranked, err := srv.Directory.RankBySalary(r.Context(), directory.Descending)
	if err != nil {
		respondError(srv, w, err)
		return
	}

	if len(ranked) == 0 {
		writeJSON(srv, w, http.StatusOK, nil)
		return
	}

	salary, err := strconv.Atoi(ranked[0].Salary)
	if err != nil {
		respondError(srv, w, decodeError("HighestSalary",
			fmt.Sprintf("Salary %q is not a valid integer", ranked[0].Salary), err))
		return
	}

	writeJSON(srv, w, http.StatusOK, salary)
}

// topTenSalaries reports the salary field of the ten highest earners. The
// route name promises employee names, but clients depend on the salaries it
// has always returned.
func topTenSalaries(srv server.Server, w http.ResponseWriter, r *http.Request) {
	ranked, err := srv.Directory.RankBySalary(r.Context(), directory.Descending)
	if err != nil {
		respondError(srv, w, err)
		return
	}

	writeJSON(srv, w, http.StatusOK, topNHighestSalaries(ranked, topEarnersCount))
}

func createEmployee(srv server.Server, w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		respondError(srv, w, decodeError("Create",
			fmt.Sprintf("Malformed request body: %v", err), err))
		return
	}

	emp, err := models.EmployeeFromFields(fields)
	if err != nil {
		respondError(srv, w, decodeError("Create",
			fmt.Sprintf("Unrecognized employee fields: %v", err), err))
		return
	}

	created, err := srv.Directory.Create(r.Context(), emp)
	if err != nil {
		respondError(srv, w, err)
		return
	}

	writeJSON(srv, w, http.StatusCreated, created)
}

func deleteEmployee(
	srv server.Server, w http.ResponseWriter, r *http.Request, id string,
) {
	if err := srv.Directory.DeleteByID(r.Context(), id); err != nil {
		respondError(srv, w, err)
		return
	}

	writeJSON(srv, w, http.StatusOK, DeleteConfirmation)
}
