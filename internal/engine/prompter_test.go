package engine

type fixedPrompter struct {
	password []byte
	entropy  []byte
}

func (f fixedPrompter) Prompt(confirm bool) ([]byte, error) {
	out := make([]byte, len(f.password))
	copy(out, f.password)
	return out, nil
}

func (f fixedPrompter) PromptEntropy() ([]byte, error) {
	out := make([]byte, len(f.entropy))
	copy(out, f.entropy)
	return out, nil
}
