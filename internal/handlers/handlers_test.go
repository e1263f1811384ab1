package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careplane/hospital-records/internal/handlers"
	"github.com/careplane/hospital-records/internal/models"
	"github.com/careplane/hospital-records/internal/services"
	"github.com/go-chi/chi/v5"
)

// fakeStore backs the three store interfaces with maps. Deleting a department
// removes its accounts and patient records, mirroring the cascading foreign
// keys of the real store.
type fakeStore struct {
	departments map[uint]models.Department
	accounts    map[uint]models.Account
	records     map[uint]models.PatientRecord
	nextDept    uint
	nextAccount uint
	nextRecord  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		departments: make(map[uint]models.Department),
		accounts:    make(map[uint]models.Account),
		records:     make(map[uint]models.PatientRecord),
	}
}

type fakeDepartments struct{ *fakeStore }

func (f fakeDepartments) Create(ctx context.Context, dept *models.Department) error {
	f.nextDept++
	dept.ID = f.nextDept
	f.departments[dept.ID] = *dept
	return nil
}

func (f fakeDepartments) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &dept, nil
}

func (f fakeDepartments) List(ctx context.Context) ([]models.Department, error) {
	out := make([]models.Department, 0, len(f.departments))
	for id := uint(1); id <= f.nextDept; id++ {
		if dept, ok := f.departments[id]; ok {
			out = append(out, dept)
		}
	}
	return out, nil
}

func (f fakeDepartments) Update(ctx context.Context, dept *models.Department) error {
	f.departments[dept.ID] = *dept
	return nil
}

func (f fakeDepartments) Delete(ctx context.Context, id uint) error {
	delete(f.departments, id)
	for aid, account := range f.accounts {
		if account.DepartmentID != nil && *account.DepartmentID == id {
			delete(f.accounts, aid)
		}
	}
	for rid, record := range f.records {
		if record.DepartmentID == id {
			delete(f.records, rid)
		}
	}
	return nil
}

type fakeAccounts struct{ *fakeStore }

func (f fakeAccounts) Create(ctx context.Context, account *models.Account) error {
	f.nextAccount++
	account.ID = f.nextAccount
	f.accounts[account.ID] = *account
	return nil
}

func (f fakeAccounts) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &account, nil
}

func (f fakeAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	for id := uint(1); id <= f.nextAccount; id++ {
		if account, ok := f.accounts[id]; ok && account.Email == email {
			return &account, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f fakeAccounts) ListByRole(ctx context.Context, role string) ([]models.Account, error) {
	var out []models.Account
	for id := uint(1); id <= f.nextAccount; id++ {
		if account, ok := f.accounts[id]; ok && account.Role == role {
			out = append(out, account)
		}
	}
	return out, nil
}

func (f fakeAccounts) ListByRoleAndDepartment(ctx context.Context, role string, departmentID uint) ([]models.Account, error) {
	var out []models.Account
	for id := uint(1); id <= f.nextAccount; id++ {
		account, ok := f.accounts[id]
		if ok && account.Role == role && account.DepartmentID != nil && *account.DepartmentID == departmentID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (f fakeAccounts) Update(ctx context.Context, account *models.Account) error {
	f.accounts[account.ID] = *account
	return nil
}

func (f fakeAccounts) Delete(ctx context.Context, id uint) error {
	delete(f.accounts, id)
	return nil
}

type fakeRecords struct{ *fakeStore }

func (f fakeRecords) Create(ctx context.Context, record *models.PatientRecord) error {
	f.nextRecord++
	record.RecordID = f.nextRecord
	f.records[record.RecordID] = *record
	return nil
}

func (f fakeRecords) GetByID(ctx context.Context, id uint) (*models.PatientRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &record, nil
}

func (f fakeRecords) List(ctx context.Context) ([]models.PatientRecord, error) {
	out := make([]models.PatientRecord, 0, len(f.records))
	for id := uint(1); id <= f.nextRecord; id++ {
		if record, ok := f.records[id]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f fakeRecords) Update(ctx context.Context, record *models.PatientRecord) error {
	f.records[record.RecordID] = *record
	return nil
}

func (f fakeRecords) Delete(ctx context.Context, id uint) error {
	delete(f.records, id)
	return nil
}

// newTestRouter wires the resource handlers onto the same routes the server
// registers
func newTestRouter() (*chi.Mux, *fakeStore) {
	fs := newFakeStore()
	registry := services.NewRegistryService(fakeDepartments{fs}, fakeAccounts{fs}, fakeRecords{fs})

	departmentHandler := handlers.NewDepartmentHandler(registry)
	accountHandler := handlers.NewAccountHandler(registry)
	recordHandler := handlers.NewRecordHandler(registry)

	r := chi.NewRouter()
	r.Post("/register", accountHandler.Register)
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", departmentHandler.List)
		r.Post("/", departmentHandler.Create)
		r.Get("/{id}/", departmentHandler.Get)
		r.Put("/{id}/", departmentHandler.Replace)
		r.Delete("/{id}/", departmentHandler.Delete)
		r.Get("/{id}/doctors/", departmentHandler.ListDoctors)
		r.Get("/{id}/patients/", departmentHandler.ListPatients)
	})
	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", accountHandler.ListDoctors)
		r.Post("/", accountHandler.CreateDoctor)
		r.Get("/{id}/", accountHandler.Get)
		r.Put("/{id}/", accountHandler.Replace)
		r.Delete("/{id}/", accountHandler.Delete)
	})
	r.Route("/patients", func(r chi.Router) {
		r.Get("/", accountHandler.ListPatients)
		r.Post("/", accountHandler.CreatePatient)
		r.Get("/{id}/", accountHandler.Get)
		r.Put("/{id}/", accountHandler.Replace)
		r.Delete("/{id}/", accountHandler.Delete)
	})
	r.Route("/patient_records", func(r chi.Router) {
		r.Get("/", recordHandler.List)
		r.Post("/", recordHandler.Create)
		r.Get("/{id}/", recordHandler.Get)
		r.Put("/{id}/", recordHandler.Replace)
		r.Delete("/{id}/", recordHandler.Delete)
	})
	return r, fs
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var m map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestDepartmentCreateThenReadBack(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(t, router, http.MethodPost, "/departments/", map[string]interface{}{
		"name": "Cardiology", "diagnostics": "", "location": "B2", "specialization": "Heart",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Create returned %d, want 200", rec.Code)
	}
	created := decode(t, rec)
	id, ok := created["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("Create response missing generated id: %v", created)
	}

	rec = do(t, router, http.MethodGet, "/departments/1/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Get returned %d, want 200", rec.Code)
	}
	got := decode(t, rec)
	if got["name"] != "Cardiology" || got["location"] != "B2" || got["specialization"] != "Heart" {
		t.Errorf("Read-back does not match payload: %v", got)
	}
}

func TestCreateMissingFieldReturns400(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(t, router, http.MethodPost, "/departments/", map[string]interface{}{
		"name": "Cardiology", "diagnostics": "", "specialization": "Heart",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if decode(t, rec)["error"] != "missing field: location" {
		t.Errorf("Unexpected error payload: %s", rec.Body.String())
	}
}

func TestCreateRecordUnknownDepartment(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(t, router, http.MethodPost, "/patient_records/", map[string]interface{}{
		"patient": "Jane Doe", "department": 99,
		"observations": "", "treatments": "", "diagnostics": "", "misc": "",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if decode(t, rec)["error"] != "Department does not exist" {
		t.Errorf("Unexpected error payload: %s", rec.Body.String())
	}
}

// newFakeScenario returns a router with one department already created
func newFakeScenario(t *testing.T) (*chi.Mux, *fakeStore) {
	t.Helper()

	router, fs := newTestRouter()
	rec := do(t, router, http.MethodPost, "/departments/", map[string]interface{}{
		"name": "Cardiology", "diagnostics": "", "location": "B2", "specialization": "Heart",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Seed department failed with %d", rec.Code)
	}
	return router, fs
}

func TestGetMissingReturnsBare404(t *testing.T) {
	router, _ := newTestRouter()

	for _, path := range []string{"/departments/99/", "/doctors/99/", "/patients/99/", "/patient_records/99/"} {
		rec := do(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s returned %d, want 404", path, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("GET %s must have an empty body, got %q", path, rec.Body.String())
		}
	}
}

func TestDeleteThenGet(t *testing.T) {
	router, _ := newFakeScenario(t)

	rec := do(t, router, http.MethodDelete, "/departments/1/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Delete returned %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Delete must have an empty body, got %q", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/departments/1/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Get after delete returned %d, want 404", rec.Code)
	}

	rec = do(t, router, http.MethodDelete, "/departments/1/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Delete of a deleted row returned %d, want 404", rec.Code)
	}
}

func TestDepartmentDeleteCascades(t *testing.T) {
	router, _ := newFakeScenario(t)

	rec := do(t, router, http.MethodPost, "/patient_records/", map[string]interface{}{
		"patient": "Jane Doe", "department": 1,
		"observations": "", "treatments": "", "diagnostics": "", "misc": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Record create returned %d, want 200", rec.Code)
	}
	created := decode(t, rec)
	if _, ok := created["record_id"].(float64); !ok {
		t.Fatalf("Record create response missing record_id: %v", created)
	}
	if created["created_date"] == nil || created["created_date"] == "" {
		t.Error("Record create must stamp created_date")
	}

	rec = do(t, router, http.MethodPost, "/doctors/", map[string]interface{}{
		"email": "jane@example.com", "name": "Jane", "department": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Doctor create returned %d, want 200", rec.Code)
	}

	rec = do(t, router, http.MethodDelete, "/departments/1/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Department delete returned %d, want 204", rec.Code)
	}

	if rec = do(t, router, http.MethodGet, "/patient_records/1/", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Cascaded record still readable, got %d", rec.Code)
	}
	if rec = do(t, router, http.MethodGet, "/doctors/1/", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Cascaded account still readable, got %d", rec.Code)
	}
}

func TestDoctorCollectionForcesRole(t *testing.T) {
	router, _ := newFakeScenario(t)

	rec := do(t, router, http.MethodPost, "/doctors/", map[string]interface{}{
		"email": "jane@example.com", "name": "Jane", "role": "patient", "department": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Doctor create returned %d, want 200", rec.Code)
	}
	if decode(t, rec)["role"] != "doctor" {
		t.Errorf("Collection must force the doctor role: %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/doctors/", nil)
	var doctors []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doctors); err != nil || len(doctors) != 1 {
		t.Fatalf("Expected one doctor, got %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/patients/", nil)
	var patients []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &patients); err != nil || len(patients) != 0 {
		t.Errorf("Expected no patients, got %s", rec.Body.String())
	}
}

func TestRegisterKeepsFreeTextRole(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(t, router, http.MethodPost, "/register", map[string]interface{}{
		"email": "kim@example.com", "name": "Kim", "role": "nurse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Register returned %d, want 200", rec.Code)
	}
	if decode(t, rec)["role"] != "nurse" {
		t.Errorf("Register must keep the supplied role: %s", rec.Body.String())
	}
}

func TestDepartmentScopedDoctorList(t *testing.T) {
	router, _ := newFakeScenario(t)

	do(t, router, http.MethodPost, "/departments/", map[string]interface{}{
		"name": "Oncology", "diagnostics": "", "location": "C1", "specialization": "Cancer",
	})
	do(t, router, http.MethodPost, "/doctors/", map[string]interface{}{
		"email": "a@example.com", "name": "A", "department": 1,
	})
	do(t, router, http.MethodPost, "/doctors/", map[string]interface{}{
		"email": "b@example.com", "name": "B", "department": 2,
	})
	do(t, router, http.MethodPost, "/patients/", map[string]interface{}{
		"email": "c@example.com", "name": "C", "department": 1,
	})

	rec := do(t, router, http.MethodGet, "/departments/1/doctors/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Scoped list returned %d, want 200", rec.Code)
	}
	var doctors []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doctors); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(doctors) != 1 || doctors[0]["email"] != "a@example.com" {
		t.Errorf("Expected only the assigned doctor, got %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/departments/99/doctors/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown department returned %d, want 404", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Unknown department must yield an empty body, got %q", rec.Body.String())
	}
}

func TestAccountReplace(t *testing.T) {
	router, _ := newFakeScenario(t)

	do(t, router, http.MethodPost, "/doctors/", map[string]interface{}{
		"email": "jane@example.com", "name": "Jane", "department": 1,
	})

	rec := do(t, router, http.MethodPut, "/doctors/1/", map[string]interface{}{
		"email": "jane.doe@example.com", "name": "Jane Doe", "role": "doctor", "department": nil,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Replace returned %d, want 200", rec.Code)
	}
	got := decode(t, rec)
	if got["email"] != "jane.doe@example.com" || got["name"] != "Jane Doe" {
		t.Errorf("Replace did not overwrite fields: %s", rec.Body.String())
	}
	if got["id"].(float64) != 1 {
		t.Errorf("id must be immutable, got %v", got["id"])
	}
	if got["department"] != nil {
		t.Errorf("Replace must clear the department, got %v", got["department"])
	}

	// Replace with a partial body is rejected before any mutation.
	rec = do(t, router, http.MethodPut, "/doctors/1/", map[string]interface{}{
		"email": "x@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Partial replace returned %d, want 400", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/doctors/1/", nil)
	if decode(t, rec)["email"] != "jane.doe@example.com" {
		t.Error("Failed replace must not mutate the row")
	}
}

func TestRecordReplaceKeepsCreatedDate(t *testing.T) {
	router, _ := newFakeScenario(t)

	rec := do(t, router, http.MethodPost, "/patient_records/", map[string]interface{}{
		"patient": "Jane Doe", "department": 1,
		"observations": "", "treatments": "", "diagnostics": "", "misc": "",
	})
	created := decode(t, rec)

	rec = do(t, router, http.MethodPut, "/patient_records/1/", map[string]interface{}{
		"patient": "Jane Doe", "department": 1,
		"observations": "stable", "treatments": "rest", "diagnostics": "flu", "misc": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Replace returned %d, want 200", rec.Code)
	}
	updated := decode(t, rec)
	if updated["created_date"] != created["created_date"] {
		t.Errorf("created_date changed across replace: %v -> %v", created["created_date"], updated["created_date"])
	}
	if updated["observations"] != "stable" || updated["diagnostics"] != "flu" {
		t.Errorf("Replace did not overwrite fields: %s", rec.Body.String())
	}
}

func TestInvalidIDReturns404(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(t, router, http.MethodGet, "/departments/abc/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Non-numeric id returned %d, want 404", rec.Code)
	}
}

func TestMalformedBodyReturns400(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/departments/", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Malformed body returned %d, want 400", rec.Code)
	}
}
