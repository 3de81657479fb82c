package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"moodiary/internal/adapters/backend"
	"moodiary/internal/application/listutil"
	"moodiary/internal/application/listview"
	"moodiary/internal/application/orchestrators"
	memberDomain "moodiary/internal/domain/member"
)

// invalidRouteID reports route parameters that cannot name an entity.
// "undefined" and "null" show up when a client renders a link from a row
// that never had an id.
func invalidRouteID(id string) bool {
	return id == "" || id == "undefined" || id == "null"
}

// newMemberList builds the paginated member list with its optimistic
// status toggle wired to the backend update endpoint.
func newMemberList(size int, actor string) *listview.Controller[memberDomain.Member] {
	fetch := func(ctx context.Context, page, pageSize int) ([]memberDomain.Member, int, error) {
		result, err := stores.MemberStore.ListPage(ctx, page, pageSize)
		if err != nil {
			return nil, 0, err
		}
		return result.Members, result.TotalPages, nil
	}
	return listview.New(fetch, size).WithMutation(listview.Mutation[memberDomain.Member]{
		Apply: func(m memberDomain.Member) memberDomain.Member {
			m.Status = m.ToggledStatus()
			return m
		},
		Commit: func(ctx context.Context, m memberDomain.Member) (*memberDomain.Member, error) {
			return orchestrators.ExecuteToggleMemberStatus(ctx, orchestrators.ToggleMemberStatusInput{
				Member:     m,
				ActorEmail: actor,
			}, orchestrators.UpdateMemberDeps{
				MemberStore: stores.MemberStore,
				AuditStore:  stores.AuditStore,
			})
		},
		ID: func(m memberDomain.Member) string { return m.ID },
	})
}

func renderMemberList(w http.ResponseWriter, r *http.Request, list *listview.Controller[memberDomain.Member]) {
	info := list.PageInfo()
	data := map[string]any{
		"Members":  list.Items(),
		"PageInfo": info,
		"Window":   info.Window(),
	}
	if err := list.Err(); err != nil {
		data["LoadError"] = "The member list could not be loaded."
	}
	if err := list.RowErr(); err != nil {
		data["RowError"] = err.Error()
	}
	renderTemplate(w, r, "member_list.html", data)
}

// handleMembers handles GET /members: the paginated member list.
func handleMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := listutil.ParsePageParams(r.URL.Query())
	list := newMemberList(params.Size, sessionEmail(r))
	if err := list.Load(r.Context(), params.Page); err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
	}
	renderMemberList(w, r, list)
}

// handleMemberToggle handles POST /members/{id}/toggle: flip the status
// of one row and re-render the list the row lives on.
func handleMemberToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := r.PathValue("id")
	if invalidRouteID(id) {
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(r.FormValue("page"))
	size, _ := strconv.Atoi(r.FormValue("size"))

	list := newMemberList(size, sessionEmail(r))
	if err := list.Load(r.Context(), page); err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		renderMemberList(w, r, list)
		return
	}

	index := -1
	for i, m := range list.Items() {
		if m.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		// Row moved off this page between render and submit.
		http.Redirect(w, r, memberListURL(page, size), http.StatusSeeOther)
		return
	}

	if err := list.Toggle(r.Context(), index); err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		// Rolled back; the list shows the row error.
		renderMemberList(w, r, list)
		return
	}
	http.Redirect(w, r, memberListURL(page, size), http.StatusSeeOther)
}

func memberListURL(page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size > 0 && size != listutil.DefaultSize {
		q.Set("size", strconv.Itoa(size))
	}
	return "/members?" + q.Encode()
}

// handleMemberEdit handles GET (form) and POST (save) for /members/{id}/edit.
// Email is identity and rendered read-only; a blank password field means
// the password stays unchanged.
func handleMemberEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if invalidRouteID(id) {
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		m, err := stores.MemberStore.GetByID(r.Context(), id)
		if err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			// Unknown or unfetchable member: back to the list.
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "member_edit.html", map[string]any{
			"Member": m,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.UpdateMemberInput{
			MemberID:    id,
			Name:        r.FormValue("Name"),
			BirthDate:   r.FormValue("BirthDate"),
			Phone:       r.FormValue("Phone"),
			NewPassword: r.FormValue("Password"),
			ActorEmail:  sessionEmail(r),
		}
		_, err := orchestrators.ExecuteUpdateMember(r.Context(), input, orchestrators.UpdateMemberDeps{
			MemberStore: stores.MemberStore,
			AuditStore:  stores.AuditStore,
		})
		if err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			if errors.Is(err, backend.ErrNotFound) {
				http.Redirect(w, r, "/members", http.StatusSeeOther)
				return
			}
			// Re-render the form with the draft and the failure. The
			// read-only email is not part of the form payload, so recover
			// it from the store for display.
			draft := memberDomain.Member{
				ID:        id,
				Name:      input.Name,
				BirthDate: input.BirthDate,
				Phone:     input.Phone,
			}
			if current, gerr := stores.MemberStore.GetByID(r.Context(), id); gerr == nil {
				draft.Email = current.Email
				draft.Status = current.Status
			}
			renderTemplate(w, r, "member_edit.html", map[string]any{
				"Member": draft,
				"Error":  saveErrorMessage(err),
			})
			return
		}

		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// saveErrorMessage maps a failed save to what the form shows.
func saveErrorMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
