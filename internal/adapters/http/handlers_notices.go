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
	noticeDomain "moodiary/internal/domain/notice"
)

// noticeRouteID parses the {id} route parameter; ok is false for values
// that cannot name a notice.
func noticeRouteID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if invalidRouteID(raw) {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func noticeDeps() orchestrators.NoticeDeps {
	return orchestrators.NoticeDeps{
		NoticeStore: stores.NoticeStore,
		AuditStore:  stores.AuditStore,
	}
}

// newNoticeList builds the paginated notice list with its optimistic
// status toggle.
func newNoticeList(size int, actor string) *listview.Controller[noticeDomain.Notice] {
	fetch := func(ctx context.Context, page, pageSize int) ([]noticeDomain.Notice, int, error) {
		result, err := stores.NoticeStore.ListPage(ctx, page, pageSize)
		if err != nil {
			return nil, 0, err
		}
		return result.Notices, result.TotalPages, nil
	}
	return listview.New(fetch, size).WithMutation(listview.Mutation[noticeDomain.Notice]{
		Apply: func(n noticeDomain.Notice) noticeDomain.Notice {
			n.Status = n.ToggledStatus()
			return n
		},
		Commit: func(ctx context.Context, n noticeDomain.Notice) (*noticeDomain.Notice, error) {
			return orchestrators.ExecuteToggleNoticeStatus(ctx, orchestrators.ToggleNoticeStatusInput{
				Notice:     n,
				ActorEmail: actor,
			}, noticeDeps())
		},
		ID: func(n noticeDomain.Notice) string { return strconv.FormatInt(n.ID, 10) },
	})
}

func renderNoticeList(w http.ResponseWriter, r *http.Request, list *listview.Controller[noticeDomain.Notice]) {
	info := list.PageInfo()
	data := map[string]any{
		"Notices":  list.Items(),
		"PageInfo": info,
		"Window":   info.Window(),
	}
	if err := list.Err(); err != nil {
		data["LoadError"] = "The notice list could not be loaded."
	}
	if err := list.RowErr(); err != nil {
		data["RowError"] = err.Error()
	}
	renderTemplate(w, r, "notice_list.html", data)
}

// handleNotices handles GET /notices: the paginated notice list.
func handleNotices(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := listutil.ParsePageParams(r.URL.Query())
	list := newNoticeList(params.Size, sessionEmail(r))
	if err := list.Load(r.Context(), params.Page); err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
	}
	renderNoticeList(w, r, list)
}

// handleNoticeToggle handles POST /notices/{id}/toggle.
func handleNoticeToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := noticeRouteID(r)
	if !ok {
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(r.FormValue("page"))
	size, _ := strconv.Atoi(r.FormValue("size"))

	list := newNoticeList(size, sessionEmail(r))
	if err := list.Load(r.Context(), page); err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		renderNoticeList(w, r, list)
		return
	}

	index := -1
	for i, n := range list.Items() {
		if n.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		http.Redirect(w, r, noticeListURL(page, size), http.StatusSeeOther)
		return
	}

	if err := list.Toggle(r.Context(), index); err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		renderNoticeList(w, r, list)
		return
	}
	http.Redirect(w, r, noticeListURL(page, size), http.StatusSeeOther)
}

func noticeListURL(page, size int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size > 0 && size != listutil.DefaultSize {
		q.Set("size", strconv.Itoa(size))
	}
	return "/notices?" + q.Encode()
}

// handleNoticeNew handles GET (form) and POST (publish) for /notices/new.
func handleNoticeNew(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "notice_form.html", map[string]any{
			"Title":  "New notice",
			"Action": "/notices/new",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		actor := sessionEmail(r)
		input := orchestrators.CreateNoticeInput{
			Title:      r.FormValue("Title"),
			Content:    r.FormValue("Content"),
			Writer:     r.FormValue("Writer"),
			ActorEmail: actor,
		}
		if input.Writer == "" {
			input.Writer = actor
		}

		if _, err := orchestrators.ExecuteCreateNotice(r.Context(), input, noticeDeps()); err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			renderTemplate(w, r, "notice_form.html", map[string]any{
				"Title":  "New notice",
				"Action": "/notices/new",
				"Notice": noticeDomain.Notice{Title: input.Title, Content: input.Content, Writer: input.Writer},
				"Error":  saveErrorMessage(err),
			})
			return
		}
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleNoticeEdit handles GET (form) and POST (save) for /notices/{id}/edit.
func handleNoticeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := noticeRouteID(r)
	if !ok {
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		n, err := stores.NoticeStore.GetByID(r.Context(), id)
		if err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			http.Redirect(w, r, "/notices", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "notice_form.html", map[string]any{
			"Title":  "Edit notice",
			"Action": "/notices/" + strconv.FormatInt(id, 10) + "/edit",
			"Notice": n,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		actor := sessionEmail(r)
		input := orchestrators.EditNoticeInput{
			NoticeID:   id,
			Title:      r.FormValue("Title"),
			Content:    r.FormValue("Content"),
			ActorEmail: actor,
		}
		if _, err := orchestrators.ExecuteEditNotice(r.Context(), input, noticeDeps()); err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			if errors.Is(err, backend.ErrNotFound) {
				http.Redirect(w, r, "/notices", http.StatusSeeOther)
				return
			}
			renderTemplate(w, r, "notice_form.html", map[string]any{
				"Title":  "Edit notice",
				"Action": "/notices/" + strconv.FormatInt(id, 10) + "/edit",
				"Notice": noticeDomain.Notice{ID: id, Title: input.Title, Content: input.Content},
				"Error":  saveErrorMessage(err),
			})
			return
		}
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleNoticeDelete handles GET (confirmation) and POST (delete) for
// /notices/{id}/delete. Deletion is irreversible, so GET never mutates.
func handleNoticeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := noticeRouteID(r)
	if !ok {
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		n, err := stores.NoticeStore.GetByID(r.Context(), id)
		if err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			http.Redirect(w, r, "/notices", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "notice_delete.html", map[string]any{
			"Notice": n,
		})
		return
	}

	if r.Method == "POST" {
		actor := sessionEmail(r)
		err := orchestrators.ExecuteDeleteNotice(r.Context(), orchestrators.DeleteNoticeInput{
			NoticeID:   id,
			ActorEmail: actor,
		}, noticeDeps())
		if err != nil && !errors.Is(err, backend.ErrNotFound) {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			renderTemplate(w, r, "notice_delete.html", map[string]any{
				"Notice": noticeDomain.Notice{ID: id},
				"Error":  saveErrorMessage(err),
			})
			return
		}
		http.Redirect(w, r, "/notices", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
