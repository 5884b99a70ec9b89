package ogtags

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/ogtags/meta"
	"github.com/eringen/ogtags/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// site returns the values every template reads.
func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         BuildURL(a.Config.URL),
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Lang:        strings.ReplaceAll(a.Config.Locale, "_", "-"),
		HomeURL:     a.HomeURL(),
	}
}

// page resolves the Open Graph record for view and returns the layout data
// carrying it as the head component.
func (a *App) page(title string, view meta.View) (views.Page, meta.Record) {
	rec := a.Resolver.Resolve(view)
	return views.Page{
		Site:  a.site(),
		Title: title,
		Head:  meta.Tags(rec),
	}, rec
}
