package postgresadapter

import (
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

// SystemClock reads wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Clock = SystemClock{}
