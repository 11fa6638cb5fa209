package handler

import "contactbook/internal/contact/models"

type addContactRequest struct {
	Name  string `json:"name" validate:"required,max=256"`
	Phone string `json:"phone" validate:"required"`
}

type phoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type birthdayRequest struct {
	Birthday string `json:"birthday" validate:"required"`
}

type contactResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday,omitempty"`
}

type contactListResponse struct {
	Contacts []contactResponse `json:"contacts"`
}

type phoneResponse struct {
	Phone string `json:"phone"`
}

type birthdayDescriptionResponse struct {
	Description string `json:"description"`
}

type celebrationResponse struct {
	Date  string   `json:"date"`
	Names []string `json:"names"`
}

type upcomingResponse struct {
	Today        string                `json:"today"`
	Celebrations []celebrationResponse `json:"celebrations"`
}

func toContactResponse(r *models.Record) contactResponse {
	phones := r.Phones()
	resp := contactResponse{
		ID:     r.ID().String(),
		Name:   r.Name(),
		Phones: make([]string, len(phones)),
	}
	for i, p := range phones {
		resp.Phones[i] = p.String()
	}
	if b, ok := r.Birthday(); ok {
		resp.Birthday = b.String()
	}
	return resp
}
