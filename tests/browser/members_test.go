package browser_test

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestMembers_ListAndPaginate verifies the member list renders rows and the
// pagination controls move between pages.
func TestMembers_ListAndPaginate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members"); err != nil {
		t.Fatalf("failed to navigate to members: %v", err)
	}

	rows := page.Locator("table tbody tr")
	count, err := rows.Count()
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 10 {
		t.Errorf("expected 10 member rows on the first page, got %d", count)
	}

	firstEmail := textContent(t, rows.First().Locator("td").First())
	if firstEmail != "user0@example.com" {
		t.Errorf("expected first row email user0@example.com, got %q", firstEmail)
	}

	// Second page carries the remainder
	if err := page.Locator("nav.pagination a").Last().Click(); err != nil {
		t.Fatalf("failed to click next page: %v", err)
	}
	if err := page.WaitForURL("**/members?page=1*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("expected page=1 in URL: %v", err)
	}
	count, err = page.Locator("table tbody tr").Count()
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 member rows on the second page, got %d", count)
	}
}

// TestMembers_ToggleStatus verifies the status toggle round-trips through
// the backend and the flipped status shows in the list.
func TestMembers_ToggleStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members"); err != nil {
		t.Fatalf("failed to navigate to members: %v", err)
	}

	firstToggle := page.Locator("table tbody tr").First().Locator("button.toggle")
	if label := textContent(t, firstToggle); label != "Active" {
		t.Fatalf("expected first member toggle to read Active, got %q", label)
	}

	if err := firstToggle.Click(); err != nil {
		t.Fatalf("failed to click toggle: %v", err)
	}
	if err := page.WaitForURL("**/members*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("toggle did not return to the list: %v", err)
	}

	firstToggle = page.Locator("table tbody tr").First().Locator("button.toggle")
	if label := textContent(t, firstToggle); label != "Inactive" {
		t.Errorf("expected toggled member to read Inactive, got %q", label)
	}

	// Backend saw the flip
	app.Backend.mu.Lock()
	got := app.Backend.members[0]["status"]
	app.Backend.mu.Unlock()
	if got != "INACTIVE" {
		t.Errorf("expected backend status INACTIVE, got %v", got)
	}
}

// TestMembers_EditProfile verifies the edit form saves profile changes and
// leaves the email untouched.
func TestMembers_EditProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members/m-003/edit"); err != nil {
		t.Fatalf("failed to open edit form: %v", err)
	}

	emailField := page.Locator("input[type=email]")
	email, err := emailField.InputValue()
	if err != nil {
		t.Fatalf("failed to read email field: %v", err)
	}
	if email != "user3@example.com" {
		t.Errorf("expected prefilled email user3@example.com, got %q", email)
	}
	if readonly, err := emailField.GetAttribute("readonly"); err != nil || readonly == "" {
		t.Errorf("expected email field to be readonly")
	}

	page.Locator("input[name=Name]").Fill("Renamed User")
	page.Locator("input[name=Phone]").Fill("010-9999-0000")
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit edit form: %v", err)
	}
	if err := page.WaitForURL("**/members*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("save did not return to the list: %v", err)
	}

	app.Backend.mu.Lock()
	m := app.Backend.members[3]
	app.Backend.mu.Unlock()
	if m["name"] != "Renamed User" {
		t.Errorf("expected backend name Renamed User, got %v", m["name"])
	}
	if m["phone"] != "010-9999-0000" {
		t.Errorf("expected backend phone updated, got %v", m["phone"])
	}
	if m["email"] != "user3@example.com" {
		t.Errorf("email must not change on profile save, got %v", m["email"])
	}
}

// TestMembers_DiaryBrowse verifies the per-member diary list and the detail
// screen with the transformed content section.
func TestMembers_DiaryBrowse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members/m-000/diaries"); err != nil {
		t.Fatalf("failed to open member diaries: %v", err)
	}
	body := textContent(t, page.Locator("body"))
	if !strings.Contains(body, "joy") {
		t.Errorf("expected seeded diary emotion in list, got body %q", body)
	}

	if _, err := page.Goto(app.BaseURL + "/diaries/1"); err != nil {
		t.Fatalf("failed to open diary detail: %v", err)
	}
	body = textContent(t, page.Locator("body"))
	if !strings.Contains(body, "a good day") {
		t.Errorf("expected diary content on detail page")
	}
	if !strings.Contains(body, "a gentle good day") {
		t.Errorf("expected transformed content on detail page")
	}
}
