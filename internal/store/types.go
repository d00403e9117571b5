package store

// Kind distinguishes the two entry types the store tracks.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Item is a directory entry as returned by the contents API.
//
// SHA is the blob's content hash; the store requires it to update or delete
// an existing blob. Optimistically inserted local entries carry an empty SHA
// until the next authoritative refresh replaces them.
type Item struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"type"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url,omitempty"`
}

// IsDir reports whether the item is a directory entry.
func (it Item) IsDir() bool {
	return it.Kind == KindDir
}

// File is a single blob fetched through Get: its current hash, decoded
// content, and the direct-fetch URL when the store supplied one.
type File struct {
	SHA         string
	Content     []byte
	DownloadURL string
}

// contentResponse is the wire shape of a single-file GET.
type contentResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	SHA         string `json:"sha"`
	Content     string `json:"content"` // base64, with embedded newlines
	Encoding    string `json:"encoding"`
	DownloadURL string `json:"download_url"`
}

// putRequest is the wire shape of a create/update PUT.
// SHA is set only when replacing an existing blob.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

// putResponse carries the store-assigned hash of the written blob.
type putResponse struct {
	Content struct {
		Name        string `json:"name"`
		SHA         string `json:"sha"`
		DownloadURL string `json:"download_url"`
	} `json:"content"`
}

// deleteRequest is the wire shape of a blob removal.
type deleteRequest struct {
	Message string `json:"message"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch,omitempty"`
}

// errorResponse is the store's message envelope on non-2xx responses.
type errorResponse struct {
	Message string `json:"message"`
}
