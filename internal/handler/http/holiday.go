package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/go-chi/chi/v5"
)

// HolidayHandler maintains the company holiday calendar the day counter reads.
type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidays calendar.HolidayRepository
	loc      *time.Location
}

func NewHolidayHandler(holidays calendar.HolidayRepository, loc *time.Location) HolidayHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &holidayHandlerImpl{holidays: holidays, loc: loc}
}

// List returns the holidays of ?year= (default current year).
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	year, err := getIntQueryParam(r, "year", time.Now().In(h.loc).Year())
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	holidays, err := h.holidays.ListBetween(r.Context(), from, from.AddDate(1, 0, -1))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]calendar.HolidayResponse, 0, len(holidays))
	for _, hol := range holidays {
		result = append(result, calendar.NewHolidayResponse(hol))
	}
	response.Success(w, result)
}

func (h *holidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req calendar.CreateHolidayRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	created, err := h.holidays.Create(r.Context(), calendar.Holiday{Date: date, Name: req.Name})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", calendar.NewHolidayResponse(created))
}

func (h *holidayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.holidays.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}
