// Package navigation describes where a rendered page sits in the menu and the breadcrumb trail.
package navigation

// Menu sections.
const (
	SectionDashboard = "dashboard"
	SectionAdmin     = "admin"
)

// Pages inside the sections.
const (
	PageDashboard = "dashboard"
	PageUsers     = "user"
	PageGroups    = "group"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context is passed to every page template as "Navigation".
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates an empty trail for a page.
func NewContext(pageTitle, section, page string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: section,
		ActivePage:    page,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Dashboard is the context of the landing page.
func Dashboard(homeURL string) *Context {
	return NewContext("Dashboard", SectionDashboard, PageDashboard).
		Link("Home", homeURL).
		Here("Dashboard", homeURL)
}

// Admin starts the trail of an admin page with Home and Admin.
func Admin(pageTitle, page, homeURL string) *Context {
	return NewContext(pageTitle, SectionAdmin, page).
		Link("Home", homeURL).
		Link("Admin", "#")
}

// Link appends a crumb leading back up the trail.
func (c *Context) Link(title, url string) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url})
	return c
}

// Here appends the crumb of the current page.
func (c *Context) Here(title, url string) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url, Active: true})
	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
