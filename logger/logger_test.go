package logger

import "testing"

func TestInit(t *testing.T) {
	Init(true)
	defer Init(false)

	Debugf("debug %s", "entry")
	Infof("info %s", "entry")
	Warnf("warn %s", "entry")
	Errorf("error %s", "entry")
	Close()
}
