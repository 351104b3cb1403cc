package cmd

const (
	// IndentFlag Flag to specify the number of spaces used to indent written scene files.
	IndentFlag = "indent"
	// VerifyFlag Flag to decode a written scene again and compare it with the encoded one.
	VerifyFlag = "verify"
	// ValidateFlag Flag to validate world manifests against the JSON schema of their component types.
	ValidateFlag = "validate"
	// ConcurrencyLimitFlag Flag to specify the number of files processed in parallel.
	ConcurrencyLimitFlag = "concurrency-limit"
	// OutputFlag Flag to specify the output format or destination.
	OutputFlag = "output"
)
