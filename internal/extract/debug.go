package extract

import "github.com/banshee-data/forceplate/internal/monitoring"

func opsf(format string, args ...interface{}) {
	monitoring.Opsf("[extract] "+format, args...)
}

func diagf(format string, args ...interface{}) {
	monitoring.Diagf("[extract] "+format, args...)
}
