package httpapi

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const layoutMain = "layouts/main"

// NewEngine returns the HTML view engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
