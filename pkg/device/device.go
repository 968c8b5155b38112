package device

// Device is the appliance switch following the sensor signal.
type Device interface {
	SetActive(bool) error
}
