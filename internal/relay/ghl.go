package relay

import (
	"net/http"

	"github.com/insquote/quote-relay/internal/ghl"
)

func (s *Server) requireCRM(w http.ResponseWriter) bool {
	return requireConfigured(w, "ghl", s.cfg.GHL.Configured(), "GHL_API_KEY", "GHL_LOCATION_ID")
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.CreateContact(r.Context(), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleSearchContacts(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.SearchContacts(r.Context(), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.Contact(r.Context(), r.PathValue("id"))
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.UpdateContact(r.Context(), r.PathValue("id"), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.DeleteContact(r.Context(), r.PathValue("id"))
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleAddContactTags(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.AddContactTags(r.Context(), r.PathValue("id"), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleRemoveContactTags(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.RemoveContactTags(r.Context(), r.PathValue("id"), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleContactNotes(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.ContactNotes(r.Context(), r.PathValue("id"))
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleCreateContactNote(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.CreateContactNote(r.Context(), r.PathValue("id"), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleContactTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.ContactTasks(r.Context(), r.PathValue("id"))
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleCreateContactTask(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.CreateContactTask(r.Context(), r.PathValue("id"), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleSearchConversations(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.SearchConversations(r.Context(), r.URL.Query())
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleConversationMessages(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.ConversationMessages(r.Context(), r.PathValue("id"), r.URL.Query())
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.SendMessage(r.Context(), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handlePhoneCall(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.PhoneCall(r.Context(), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleCalendars(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.Calendars(r.Context(), r.URL.Query())
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.CalendarEvents(r.Context(), r.PathValue("id"), r.URL.Query())
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.CreateAppointment(r.Context(), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.Users(r.Context(), r.URL.Query())
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handlePipelines(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.Pipelines(r.Context())
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	body, ok := readLimitedRequestBody(w, r)
	if !ok {
		return
	}
	res, err := s.crm.CreateOpportunity(r.Context(), body)
	respondCRMStyle(w, ghl.Target, res, err)
}

func (s *Server) handleSearchOpportunities(w http.ResponseWriter, r *http.Request) {
	if !s.requireCRM(w) {
		return
	}
	res, err := s.crm.SearchOpportunities(r.Context(), r.URL.Query())
	respondCRMStyle(w, ghl.Target, res, err)
}
