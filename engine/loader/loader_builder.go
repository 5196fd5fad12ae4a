package loader

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loader)

// WithFileReader sets how external buffers are read. Buffer URIs are joined to the directory
// of the model name before being passed on. Without a reader only embedded buffers load.
//
// Parameters:
//   - read: returns the contents of a slash-separated name
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithFileReader(read func(name string) ([]byte, error)) LoaderBuilderOption {
	return func(l *loader) {
		l.readFile = read
	}
}
