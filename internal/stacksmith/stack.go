package stacksmith

// StackReference is the handle the API returns for a created stack. The
// client never invents one; it only parses what the stacks endpoint sends
// back.
type StackReference struct {
	ID       string
	StackURL string
}

const dockerfileURLSuffix = ".dockerfile"

// DockerfileURL is the URL of the Dockerfile generated for this stack.
func (s StackReference) DockerfileURL() string {
	return s.StackURL + dockerfileURLSuffix
}
