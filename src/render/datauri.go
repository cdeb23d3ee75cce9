package render

import (
	"encoding/base64"
	"fmt"
)

// DataURI packages encoded image bytes for direct embedding in an HTML
// document or terminal that understands data URIs.
func DataURI(mime string, raw []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))
}
