package types

// DatasetFile is one raw file of a dataset upload. Uploads may carry
// several files whose samples are merged into a single corpus.
type DatasetFile struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}
