package layout

import (
	"io"
	"text/template"
)

// The script runs before the refresh fires and keeps the query and fragment,
// which the meta refresh cannot.
const redirectSkeleton = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta http-equiv="refresh" content="0;URL={{.}}">
</head>
<body>
    <p>Redirecting to <a href="{{.}}">{{.}}</a>...</p>
    <script>location.replace("{{.}}" + location.search + location.hash);</script>
</body>
</html>`

var redirectTemplate = template.Must(template.New("redirect").Parse(redirectSkeleton))

// Redirect writes a document to w that sends the browser to url. The url is
// embedded verbatim in the meta refresh, the fallback link and the script.
func Redirect(w io.Writer, url string) error {
	return redirectTemplate.Execute(w, url)
}
