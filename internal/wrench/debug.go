package wrench

import "github.com/banshee-data/forceplate/internal/monitoring"

func opsf(format string, args ...interface{}) {
	monitoring.Opsf("[wrench] "+format, args...)
}

func diagf(format string, args ...interface{}) {
	monitoring.Diagf("[wrench] "+format, args...)
}
