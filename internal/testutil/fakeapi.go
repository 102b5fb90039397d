package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FakeAPI is an in-memory club REST API for handler and client tests.
// Records are stored as decoded JSON objects keyed by collection and id.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	data     map[string]map[string]map[string]any
	order    map[string][]string
	nextID   int
	fail     map[string]int
	requests []string

	// Accounts maps email to password for /auth/login.
	Accounts map[string]string
	// Role is returned for every successful login.
	Role string
}

var fakeCollections = map[string]string{
	"members":         "members",
	"classes":         "classes",
	"instructors":     "instructors",
	"clubs":           "clubs",
	"restaurants":     "restaurants",
	"reservations":    "reservations",
	"offices":         "offices",
	"office-bookings": "office_bookings",
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		data:     map[string]map[string]map[string]any{},
		order:    map[string][]string{},
		fail:     map[string]int{},
		Accounts: map[string]string{"admin@club.test": "secret123"},
		Role:     "admin",
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Post("/auth/login", f.login)
	r.Get("/api/me", f.me)
	r.Post("/api/me/change-password", f.changePassword)
	r.Get("/api/classes/{id}/details", f.classDetails)
	r.Post("/api/classes/{id}/enroll", f.enroll)
	r.Delete("/api/classes/{id}/unenroll/{memberID}", f.unenroll)
	r.Get("/api/{kind}", f.list)
	r.Post("/api/{kind}", f.create)
	r.Get("/api/{kind}/{id}", f.get)
	r.Put("/api/{kind}/{id}", f.update)
	r.Delete("/api/{kind}/{id}", f.remove)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// Client returns an apiclient.Client pointed at the fake server.
func (f *FakeAPI) Client(t *testing.T) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(f.Server.URL, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return c
}

// Seed stores rec (any JSON-encodable value) in collection and returns
// its id. A missing id is assigned.
func (f *FakeAPI) Seed(collection string, rec any) string {
	raw, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(collection, obj)
}

// Fail makes the next request whose "METHOD /path" starts with prefix
// answer status with a JSON error body. Status 0 clears it.
func (f *FakeAPI) Fail(prefix string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.fail, prefix)
		return
	}
	f.fail[prefix] = status
}

// Requests returns "METHOD /path" for every request served so far.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Count returns how many records collection holds.
func (f *FakeAPI) Count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data[collection])
}

// Record returns a copy of one stored record.
func (f *FakeAPI) Record(collection, id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.data[collection][id]
	if !ok {
		return nil, false
	}
	cp := make(map[string]any, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp, true
}

func (f *FakeAPI) put(collection string, obj map[string]any) string {
	id, _ := obj["id"].(string)
	if id == "" {
		f.nextID++
		id = collection + "-" + strconv.Itoa(f.nextID)
		obj["id"] = id
	}
	if f.data[collection] == nil {
		f.data[collection] = map[string]map[string]any{}
	}
	if _, exists := f.data[collection][id]; !exists {
		f.order[collection] = append(f.order[collection], id)
	}
	f.data[collection][id] = obj
	return id
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.requests = append(f.requests, line)
		status := 0
		var matched string
		for prefix, s := range f.fail {
			if strings.HasPrefix(line, prefix) && len(prefix) > len(matched) {
				matched, status = prefix, s
			}
		}
		if matched != "" {
			delete(f.fail, matched)
		}
		f.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func collectionOf(r *http.Request) (string, bool) {
	c, ok := fakeCollections[chi.URLParam(r, "kind")]
	return c, ok
}

func (f *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	f.mu.Lock()
	out := make([]map[string]any, 0, len(f.order[coll]))
	for _, id := range f.order[coll] {
		rec, ok := f.data[coll][id]
		if !ok {
			continue
		}
		if !matchesQuery(rec, r) {
			continue
		}
		out = append(out, rec)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// matchesQuery applies ?field=value filters against string fields.
func matchesQuery(rec map[string]any, r *http.Request) bool {
	for key, vals := range r.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		if s, _ := rec[key].(string); s != vals[0] {
			return false
		}
	}
	return true
}

func (f *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	f.mu.Lock()
	rec, found := f.data[coll][chi.URLParam(r, "id")]
	f.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	delete(obj, "id")
	if !storeDate(w, coll, obj) {
		return
	}
	f.mu.Lock()
	f.put(coll, obj)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, obj)
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	id := chi.URLParam(r, "id")
	var obj map[string]any
	if err := json.NewDecoder(r.Body).Decode(&obj); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if !storeDate(w, coll, obj) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, found := f.data[coll][id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
		return
	}
	// Fields missing from the body keep their stored values.
	merged := make(map[string]any, len(existing)+len(obj))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range obj {
		merged[k] = v
	}
	merged["id"] = id
	f.put(coll, merged)
	writeJSON(w, http.StatusOK, merged)
}

// storeDate enforces the classes endpoints' YYYY-MM-DD request date and
// stores it the way the API answers it, as a timestamp. It writes the 400
// and returns false when the date is malformed.
func storeDate(w http.ResponseWriter, coll string, obj map[string]any) bool {
	if coll != "classes" {
		return true
	}
	raw, _ := obj["date"].(string)
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		http.Error(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return false
	}
	obj["date"] = d.Format(time.RFC3339)
	return true
}

func (f *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	coll, ok := collectionOf(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, found := f.data[coll][id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Record not found"})
		return
	}
	delete(f.data[coll], id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) classDetails(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	class, found := f.data["classes"][chi.URLParam(r, "id")]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Class not found"})
		return
	}
	out := make(map[string]any, len(class)+2)
	for k, v := range class {
		out[k] = v
	}
	out["enrolled_members_details"] = f.membersFor(class["enrolled_members"])
	out["wait_list_details"] = f.membersFor(class["wait_list"])
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) membersFor(ids any) []map[string]any {
	out := []map[string]any{}
	list, _ := ids.([]any)
	for _, v := range list {
		id, _ := v.(string)
		if m, ok := f.data["members"][id]; ok {
			out = append(out, m)
		}
	}
	return out
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, x := range list {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func (f *FakeAPI) enroll(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MemberID string `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MemberID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member_id is required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	class, found := f.data["classes"][chi.URLParam(r, "id")]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Class not found"})
		return
	}
	enrolled := stringList(class["enrolled_members"])
	waiting := stringList(class["wait_list"])
	for _, id := range append(append([]string(nil), enrolled...), waiting...) {
		if id == body.MemberID {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Member already enrolled"})
			return
		}
	}
	capacity, _ := class["capacity"].(float64)
	if capacity > 0 && len(enrolled) >= int(capacity) {
		waiting = append(waiting, body.MemberID)
	} else {
		enrolled = append(enrolled, body.MemberID)
	}
	class["enrolled_members"] = toAny(enrolled)
	class["wait_list"] = toAny(waiting)
	writeJSON(w, http.StatusOK, map[string]string{"message": "enrolled"})
}

func (f *FakeAPI) unenroll(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	class, found := f.data["classes"][chi.URLParam(r, "id")]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Class not found"})
		return
	}
	memberID := chi.URLParam(r, "memberID")
	drop := func(ids []string) ([]string, bool) {
		out := ids[:0]
		hit := false
		for _, id := range ids {
			if id == memberID {
				hit = true
				continue
			}
			out = append(out, id)
		}
		return out, hit
	}
	enrolled, hitE := drop(stringList(class["enrolled_members"]))
	waiting, hitW := drop(stringList(class["wait_list"]))
	if !hitE && !hitW {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Member not enrolled"})
		return
	}
	// Promote the head of the wait list into the freed seat.
	if hitE && len(waiting) > 0 {
		enrolled = append(enrolled, waiting[0])
		waiting = waiting[1:]
	}
	class["enrolled_members"] = toAny(enrolled)
	class["wait_list"] = toAny(waiting)
	w.WriteHeader(http.StatusNoContent)
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	f.mu.Lock()
	pw, ok := f.Accounts[body.Email]
	role := f.Role
	f.mu.Unlock()
	if !ok || pw != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   "token:" + body.Email,
		"message": "Login successful",
		"user": map[string]any{
			"id":         "user:" + body.Email,
			"email":      body.Email,
			"first_name": "Test",
			"last_name":  "Staff",
			"role":       role,
			"active":     true,
		},
	})
}

func (f *FakeAPI) me(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimPrefix(bearer(r), "token:")
	f.mu.Lock()
	_, ok := f.Accounts[email]
	role := f.Role
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": "user:" + email, "email": email, "role": role, "active": true,
	})
}

func (f *FakeAPI) changePassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimPrefix(bearer(r), "token:")
	var body struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pw, ok := f.Accounts[email]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	if pw != body.Current {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Current password is incorrect"})
		return
	}
	f.Accounts[email] = body.New
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// IDs returns the ids stored in collection, sorted.
func (f *FakeAPI) IDs(collection string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.data[collection]))
	for id := range f.data[collection] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
