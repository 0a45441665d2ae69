package quantifier

import (
	"go-image-quantifier/pkg/models"
)

// ResultRow and RunOutcome are aliases to the shared models so the
// pipeline and the transport layer speak the same types.
type ResultRow = models.ResultRow

type RunOutcome = models.RunOutcome
