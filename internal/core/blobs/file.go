package blobs

// File is an uploaded file held in memory until it is stored
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the number of bytes in the file
func (f *File) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}
