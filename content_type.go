package formkit

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Common MIME types
const (
	MIMETypeTextPlain        = "text/plain"
	MIMETypeTextHTML         = "text/html"
	MIMETypeTextCSV          = "text/csv"
	MIMETypeApplicationJSON  = "application/json"
	MIMETypeApplicationXML   = "application/xml"
	MIMETypeOctetStream      = "application/octet-stream"
	MIMETypeImageJPEG        = "image/jpeg"
	MIMETypeImagePNG         = "image/png"
	MIMETypeImageGIF         = "image/gif"
	MIMETypeApplicationPDF   = "application/pdf"
	MIMETypeApplicationZip   = "application/zip"
	MIMETypeMultipartForm    = "multipart/form-data"
	MIMETypeURLEncodedForm   = "application/x-www-form-urlencoded"
	MIMETypeApplicationGzip  = "application/gzip"
	MIMETypeTextMarkdown     = "text/markdown"
	MIMETypeApplicationYAML  = "application/yaml"
	MIMETypeTextJavaScript   = "text/javascript"
	MIMETypeImageSVG         = "image/svg+xml"
	MIMETypeImageWebP        = "image/webp"
	MIMETypeApplicationWasm  = "application/wasm"
	MIMETypeApplicationXTar  = "application/x-tar"
	MIMETypeTextCSS          = "text/css"
	MIMETypeApplicationJSONL = "application/jsonl"
)

// Common file extensions to MIME types mapping
var extensionToMIME = map[string]string{
	".txt":   MIMETypeTextPlain,
	".log":   MIMETypeTextPlain,
	".html":  MIMETypeTextHTML,
	".htm":   MIMETypeTextHTML,
	".css":   MIMETypeTextCSS,
	".js":    MIMETypeTextJavaScript,
	".json":  MIMETypeApplicationJSON,
	".jsonl": MIMETypeApplicationJSONL,
	".xml":   MIMETypeApplicationXML,
	".yaml":  MIMETypeApplicationYAML,
	".yml":   MIMETypeApplicationYAML,
	".csv":   MIMETypeTextCSV,
	".md":    MIMETypeTextMarkdown,
	".jpg":   MIMETypeImageJPEG,
	".jpeg":  MIMETypeImageJPEG,
	".png":   MIMETypeImagePNG,
	".gif":   MIMETypeImageGIF,
	".svg":   MIMETypeImageSVG,
	".webp":  MIMETypeImageWebP,
	".pdf":   MIMETypeApplicationPDF,
	".zip":   MIMETypeApplicationZip,
	".gz":    MIMETypeApplicationGzip,
	".tar":   MIMETypeApplicationXTar,
	".wasm":  MIMETypeApplicationWasm,
}

// GuessContentType picks a content type for a file part from its filename
// and, failing that, its content.
func GuessContentType(fileName string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if contentType, ok := extensionToMIME[ext]; ok {
		return contentType
	}

	if len(data) > 0 {
		return http.DetectContentType(data)
	}

	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	return MIMETypeOctetStream
}

// MediaType returns contentType without parameters, lower-cased
func MediaType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// IsTextContent reports whether a content type denotes text that is safe to
// print
func IsTextContent(contentType string) bool {
	mt := MediaType(contentType)
	return strings.HasPrefix(mt, "text/") ||
		mt == MIMETypeApplicationJSON ||
		mt == MIMETypeApplicationJSONL ||
		mt == MIMETypeApplicationXML ||
		mt == MIMETypeApplicationYAML ||
		mt == MIMETypeURLEncodedForm
}

// ExtensionForContentType returns a file extension suited to a content type,
// ".bin" when nothing better is known.
func ExtensionForContentType(contentType string) string {
	mt := MediaType(contentType)
	for _, preferred := range []string{".txt", ".html", ".json", ".xml", ".csv", ".md", ".jpg", ".png", ".gif", ".pdf", ".zip", ".gz"} {
		if extensionToMIME[preferred] == mt {
			return preferred
		}
	}

	exts, err := mime.ExtensionsByType(mt)
	if err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
