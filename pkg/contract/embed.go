package contract

import "embed"

// DefaultDocument names the embedded contract describing the form-creation
// service's createField operation.
const DefaultDocument = "contracts/fieldservice.yaml"

// DefaultOperation is the operation id the embedded contract exposes.
const DefaultOperation = "createField"

//go:embed contracts/*.yaml
var embedded embed.FS
