// internal/app/system/apiclient/resources.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Resource is the list/get/create/update/delete surface of one
// collection endpoint. It satisfies listctl.Source via Fetch and Delete.
type Resource[T any] struct {
	c     *Client
	kind  string // used in op names, e.g. "members"
	path  string // e.g. "/api/members"
	query url.Values
	// encode maps a record to its write body; nil sends the record as is.
	encode func(T) any
}

func newResource[T any](c *Client, kind, path string) Resource[T] {
	return Resource[T]{c: c, kind: kind, path: path}
}

// Kind names the collection ("members", "classes", ...).
func (r Resource[T]) Kind() string { return r.kind }

// Where returns a copy of r whose list calls carry the given filter,
// e.g. Reservations(c).Where("restaurant_id", id).
func (r Resource[T]) Where(key, value string) Resource[T] {
	q := url.Values{}
	for k, v := range r.query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, value)
	r.query = q
	return r
}

// List fetches the whole collection. A null body decodes to an empty,
// non-nil slice.
func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	path := r.path
	if len(r.query) > 0 {
		path += "?" + r.query.Encode()
	}
	var out []T
	if err := r.c.do(ctx, r.kind+".list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Fetch is List under the name listctl.Source expects.
func (r Resource[T]) Fetch(ctx context.Context) ([]T, error) {
	return r.List(ctx)
}

func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.do(ctx, r.kind+".get", http.MethodGet, r.path+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (r Resource[T]) body(rec T) any {
	if r.encode != nil {
		return r.encode(rec)
	}
	return rec
}

// Create posts rec and returns the stored record with its API-assigned id.
func (r Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	var out T
	err := r.c.do(ctx, r.kind+".create", http.MethodPost, r.path, r.body(rec), &out)
	return out, err
}

func (r Resource[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var out T
	err := r.c.do(ctx, r.kind+".update", http.MethodPut, r.path+"/"+url.PathEscape(id), r.body(rec), &out)
	return out, err
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, r.kind+".delete", http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Members() Resource[models.Member] {
	return newResource[models.Member](c, "members", "/api/members")
}

func (c *Client) Classes() Resource[models.Class] {
	res := newResource[models.Class](c, "classes", "/api/classes")
	res.encode = classBody
	return res
}

func (c *Client) Instructors() Resource[models.Instructor] {
	return newResource[models.Instructor](c, "instructors", "/api/instructors")
}

func (c *Client) Clubs() Resource[models.Club] {
	return newResource[models.Club](c, "clubs", "/api/clubs")
}

func (c *Client) Restaurants() Resource[models.Restaurant] {
	return newResource[models.Restaurant](c, "restaurants", "/api/restaurants")
}

func (c *Client) Reservations() Resource[models.Reservation] {
	return newResource[models.Reservation](c, "reservations", "/api/reservations")
}

func (c *Client) Offices() Resource[models.Office] {
	return newResource[models.Office](c, "offices", "/api/offices")
}

func (c *Client) OfficeBookings() Resource[models.OfficeBooking] {
	return newResource[models.OfficeBooking](c, "office_bookings", "/api/office-bookings")
}

// ClassDetails returns a class with its enrolled and wait-listed members.
func (c *Client) ClassDetails(ctx context.Context, id string) (models.ClassWithMembers, error) {
	var out models.ClassWithMembers
	err := c.do(ctx, "classes.details", http.MethodGet, "/api/classes/"+url.PathEscape(id)+"/details", nil, &out)
	return out, err
}

// Enroll adds a member to a class (or its wait list when full).
func (c *Client) Enroll(ctx context.Context, classID, memberID string) error {
	body := map[string]string{"member_id": memberID}
	return c.do(ctx, "classes.enroll", http.MethodPost, "/api/classes/"+url.PathEscape(classID)+"/enroll", body, nil)
}

// Unenroll removes a member from a class.
func (c *Client) Unenroll(ctx context.Context, classID, memberID string) error {
	path := "/api/classes/" + url.PathEscape(classID) + "/unenroll/" + url.PathEscape(memberID)
	return c.do(ctx, "classes.unenroll", http.MethodDelete, path, nil, nil)
}
