// internal/app/features/restaurants/form.go
package restaurants

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type restaurantInput struct {
	Name        string `validate:"required,max=200" label:"Restaurant name"`
	ClubID      string
	Description string `validate:"max=2000" label:"Description"`
	Cuisine     string `validate:"required,max=100" label:"Cuisine type"`
	Capacity    int    `validate:"gte=1,lte=5000" label:"Capacity"`
	Phone       string `validate:"required,max=40" label:"Phone"`
	Email       string `validate:"required,clubemail" label:"Email"`
	OpeningTime string `validate:"required,clock" label:"Opening time"`
	ClosingTime string `validate:"required,clock" label:"Closing time"`
	Active      bool
}

func parseInput(r *http.Request) restaurantInput {
	get := func(k string) string { return strings.TrimSpace(r.PostFormValue(k)) }
	capacity, _ := strconv.Atoi(get("capacity"))
	return restaurantInput{
		Name:        get("name"),
		ClubID:      get("club_id"),
		Description: get("description"),
		Cuisine:     get("cuisine"),
		Capacity:    capacity,
		Phone:       get("phone"),
		Email:       strings.ToLower(get("email")),
		OpeningTime: get("opening_time"),
		ClosingTime: get("closing_time"),
		Active:      r.PostFormValue("active") == "on",
	}
}

func inputFrom(rs models.Restaurant) restaurantInput {
	return restaurantInput{
		Name: rs.Name, ClubID: rs.ClubID, Description: rs.Description, Cuisine: rs.Cuisine,
		Capacity: rs.Capacity, Phone: rs.Phone, Email: rs.Email,
		OpeningTime: rs.OpeningTime, ClosingTime: rs.ClosingTime, Active: rs.Active,
	}
}

func (in restaurantInput) apply(rs *models.Restaurant) error {
	if err := inputval.Validate(in).Err(); err != nil {
		return err
	}
	rs.Name = in.Name
	rs.ClubID = in.ClubID
	rs.Description = in.Description
	rs.Cuisine = in.Cuisine
	rs.Capacity = in.Capacity
	rs.Phone = in.Phone
	rs.Email = in.Email
	rs.OpeningTime = in.OpeningTime
	rs.ClosingTime = in.ClosingTime
	rs.Active = in.Active
	return nil
}

func clubOptions(clubs []models.Club, selected string) []option {
	out := make([]option, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, option{Value: c.ID, Label: c.Name, Selected: c.ID == selected})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, in restaurantInput, id string, errMsg string) {
	data := formData{Input: in, IsEdit: id != ""}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "clubs for restaurant form")
	defer cancel()
	if clubs, err := auth.APIClient(r, h.API).Clubs().List(ctx); err != nil {
		h.Log.Warn("clubs for restaurant form", zap.Error(err))
	} else {
		data.Clubs = clubOptions(clubs, in.ClubID)
	}

	if id == "" {
		formutil.SetBase(&data.Base, r, "Add Restaurant", "/restaurants")
		data.ActionURL = "/restaurants"
		data.CancelURL = "/restaurants"
	} else {
		formutil.SetBase(&data.Base, r, "Edit Restaurant", "/restaurants/"+id)
		data.ActionURL = "/restaurants/" + id + "/edit"
		data.CancelURL = "/restaurants/" + id
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "restaurant_form", data)
}

// ServeNew renders GET /restaurants/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, restaurantInput{Capacity: 50, OpeningTime: "11:00", ClosingTime: "22:00", Active: true}, "", "")
}

// HandleCreate handles POST /restaurants.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse restaurant form", err, "Invalid form submission.", "/restaurants")
		return
	}
	in := parseInput(r)
	var rs models.Restaurant
	if err := in.apply(&rs); err != nil {
		h.renderForm(w, r, in, "", apiclient.Message(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create restaurant")
	defer cancel()
	created, err := auth.APIClient(r, h.API).Restaurants().Create(ctx, rs)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, "", "Failed to create restaurant: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordCreated(r.Context(), r, "restaurants", created.ID, created.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Restaurant created.")
	http.Redirect(w, r, "/restaurants/"+created.ID, http.StatusSeeOther)
}

// ServeEdit renders GET /restaurants/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get restaurant")
	defer cancel()
	rs, err := auth.APIClient(r, h.API).Restaurants().Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load restaurant for edit", err, "/restaurants")
		return
	}
	h.renderForm(w, r, inputFrom(rs), id, "")
}

// HandleEdit handles POST /restaurants/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse restaurant form", err, "Invalid form submission.", "/restaurants/"+id)
		return
	}
	in := parseInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderForm(w, r, in, id, res.First())
		return
	}

	api := auth.APIClient(r, h.API).Restaurants()
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update restaurant")
	defer cancel()

	rs, err := api.Get(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load restaurant for update", err, "/restaurants")
		return
	}
	if err := in.apply(&rs); err != nil {
		h.renderForm(w, r, in, id, apiclient.Message(err))
		return
	}
	if _, err := api.Update(ctx, id, rs); err != nil {
		if apiclient.IsUnauthorized(err) {
			auth.RedirectToLogin(w, r)
			return
		}
		h.renderForm(w, r, in, id, "Failed to update restaurant: "+apiclient.Message(err))
		return
	}
	h.AuditLog.RecordUpdated(r.Context(), r, "restaurants", id, rs.Name)
	h.SM.AddFlash(w, r, auth.FlashSuccess, "Restaurant updated.")
	http.Redirect(w, r, "/restaurants/"+id, http.StatusSeeOther)
}
