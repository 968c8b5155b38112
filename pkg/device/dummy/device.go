package dummy

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Dummy logs switch transitions instead of driving hardware. Used in
// development and tests.
type Dummy struct {
	active bool
	sync.Mutex
}

func New() *Dummy {
	return &Dummy{}
}

func (d *Dummy) SetActive(b bool) error {
	d.Lock()
	d.active = b
	d.Unlock()
	logrus.Info("dummy: SetActive: ", b)
	return nil
}

func (d *Dummy) Active() bool {
	d.Lock()
	defer d.Unlock()
	return d.active
}
