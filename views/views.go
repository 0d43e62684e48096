package views

import (
	"embed"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html partials/*.html
var files embed.FS

// Engine returns the html template engine over the embedded pages.
func Engine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("upper", strings.ToUpper)
	return engine
}
