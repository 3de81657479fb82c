package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"moodiary/internal/adapters/backend"
	"moodiary/internal/application/orchestrators"
	diaryDomain "moodiary/internal/domain/diary"
)

// diaryPeriod parses the year/month filter, defaulting to the current
// month. Out-of-range months fall back to the default rather than
// erroring; the filter is navigation, not validation.
func diaryPeriod(r *http.Request) (int, int) {
	now := timeNow()
	year, month := now.Year(), int(now.Month())
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y >= 2000 && y <= 2100 {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	return year, month
}

// handleMemberDiaries handles GET /members/{id}/diaries: one member's
// diaries for a selected month.
func handleMemberDiaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	memberID := r.PathValue("id")
	if invalidRouteID(memberID) {
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	year, month := diaryPeriod(r)

	m, err := stores.MemberStore.GetByID(r.Context(), memberID)
	if err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Member": m,
		"Year":   year,
		"Month":  month,
		"Months": monthNav(year, month),
	}
	diaries, err := stores.DiaryStore.ListByMonth(r.Context(), memberID, year, month)
	if err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		data["LoadError"] = "Diaries for this month could not be loaded."
	} else {
		data["Diaries"] = diaries
	}
	renderTemplate(w, r, "diary_list.html", data)
}

// monthLink is one entry of the prev/current/next month navigation.
type monthLink struct {
	Year  int
	Month int
	Label string
}

// monthNav returns previous, current, and next month for the filter bar.
func monthNav(year, month int) []monthLink {
	cur := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	links := make([]monthLink, 0, 3)
	for _, t := range []time.Time{cur.AddDate(0, -1, 0), cur, cur.AddDate(0, 1, 0)} {
		links = append(links, monthLink{
			Year:  t.Year(),
			Month: int(t.Month()),
			Label: t.Format("2006-01"),
		})
	}
	return links
}

// diaryRouteID parses the {id} route parameter for diary routes.
func diaryRouteID(r *http.Request) (int64, bool) {
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

// handleDiaryDetail handles GET /diaries/{id}: the full diary entry, with
// the transformed content rendered when present.
func handleDiaryDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := diaryRouteID(r)
	if !ok {
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	d, err := stores.DiaryStore.GetByID(r.Context(), id)
	if err != nil {
		if handleExpiredCredentials(w, r, err) {
			return
		}
		if errors.Is(err, backend.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "diary_detail.html", map[string]any{
		"Diary":          d,
		"HasTransformed": d.TransformContent != "",
	})
}

// handleDiaryDelete handles GET (confirmation) and POST (delete) for
// /diaries/{id}/delete.
func handleDiaryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := diaryRouteID(r)
	if !ok {
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		d, err := stores.DiaryStore.GetByID(r.Context(), id)
		if err != nil {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "diary_delete.html", map[string]any{
			"Diary": d,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		memberID := r.FormValue("MemberID")

		err := orchestrators.ExecuteDeleteDiary(r.Context(), orchestrators.DeleteDiaryInput{
			DiaryID:    id,
			MemberID:   memberID,
			ActorEmail: sessionEmail(r),
		}, orchestrators.DiaryDeps{
			DiaryStore: stores.DiaryStore,
			AuditStore: stores.AuditStore,
		})
		if err != nil && !errors.Is(err, backend.ErrNotFound) {
			if handleExpiredCredentials(w, r, err) {
				return
			}
			renderTemplate(w, r, "diary_delete.html", map[string]any{
				"Diary": diaryDomain.Diary{DiaryID: id, MemberID: memberID},
				"Error": saveErrorMessage(err),
			})
			return
		}

		if memberID != "" {
			http.Redirect(w, r, "/members/"+url.PathEscape(memberID)+"/diaries", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/members", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
