package embedding

import _ "embed"

//go:embed scripts/encoder.py
var embeddedPythonScript string

//go:embed scripts/requirements.txt
var embeddedRequirements string

const defaultRequirements = `transformers>=4.30.0
torch>=2.0.0
numpy>=1.21.0`

func requirementsContent() string {
	if embeddedRequirements == "" {
		return defaultRequirements
	}
	return embeddedRequirements
}
