package web

import (
	"net/http"

	"github.com/vbonduro/boatlog/internal/domain"
	"github.com/vbonduro/boatlog/internal/service"
)

type createBookingRequest struct {
	Person    string  `json:"person" validate:"required,person"`
	StartDate string  `json:"start_date" validate:"required,date"`
	EndDate   string  `json:"end_date" validate:"required,date"`
	Comment   *string `json:"comment"`
	Status    string  `json:"status" validate:"omitempty,booking_status"`
}

func (createBookingRequest) requiredMessage() string {
	return domain.ErrBookingFieldsRequired.Error()
}

func (req createBookingRequest) toBooking() domain.Booking {
	return domain.Booking{
		Person:    domain.Person(req.Person),
		StartDate: domain.MustParseDate(req.StartDate),
		EndDate:   domain.MustParseDate(req.EndDate),
		Comment:   req.Comment,
		Status:    domain.BookingStatus(req.Status),
	}
}

type updateBookingRequest struct {
	Person    *string `json:"person" validate:"omitnil,person"`
	StartDate *string `json:"start_date" validate:"omitnil,date"`
	EndDate   *string `json:"end_date" validate:"omitnil,date"`
	Comment   *string `json:"comment"`
	Status    *string `json:"status" validate:"omitnil,booking_status"`
}

func (updateBookingRequest) requiredMessage() string {
	return domain.ErrBookingFieldsRequired.Error()
}

func (req updateBookingRequest) toPatch() domain.BookingPatch {
	var p domain.BookingPatch
	if req.Person != nil {
		person := domain.Person(*req.Person)
		p.Person = &person
	}
	p.StartDate = parseOptionalDate(req.StartDate)
	p.EndDate = parseOptionalDate(req.EndDate)
	p.Comment = req.Comment
	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		p.Status = &status
	}
	return p
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := service.BookingFilter{Person: domain.Person(q.Get("person"))}
	if start, end := q.Get("startDate"), q.Get("endDate"); start != "" && end != "" {
		var err error
		if f.StartDate, err = domain.ParseDate(start); err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid startDate. Expected YYYY-MM-DD")
			return
		}
		if f.EndDate, err = domain.ParseDate(end); err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid endDate. Expected YYYY-MM-DD")
			return
		}
	}

	bookings, err := s.bookings.ListBookings(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, bookingResource, "fetch", err)
		return
	}
	jsonList(w, bookings)
}

func (s *Server) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := domain.ParseDate(q.Get("startDate"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid startDate. Expected YYYY-MM-DD")
		return
	}
	end, err := domain.ParseDate(q.Get("endDate"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid endDate. Expected YYYY-MM-DD")
		return
	}

	available, err := s.bookings.CheckAvailability(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, r, bookingResource, "check availability of", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"available": available})
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := s.bookings.CreateBooking(r.Context(), req.toBooking())
	if err != nil {
		s.writeServiceError(w, r, bookingResource, "create", err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	b, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, bookingResource, "fetch", err)
		return
	}
	if b == nil {
		jsonError(w, http.StatusNotFound, bookingResource.notFound)
		return
	}
	jsonResponse(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}
	var req updateBookingRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.bookings.UpdateBooking(r.Context(), id, req.toPatch())
	if err != nil {
		s.writeServiceError(w, r, bookingResource, "update", err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	if err := s.bookings.DeleteBooking(r.Context(), id); err != nil {
		s.writeServiceError(w, r, bookingResource, "delete", err)
		return
	}
	jsonMessage(w, "Booking deleted successfully")
}
