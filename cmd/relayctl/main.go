// relayctl is a commissioning tool to poke the appliance relay directly.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/goburrow/modbus"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/device/modbusrelay"
)

func main() {
	address := flag.String("addr", "", "tcp modbus address")
	slaveID := flag.Int("slave", 1, "modbus slave id")

	coil := flag.Int("coil", 0, "coil address of the relay")
	holdingreg := flag.Int("holdingreg", 0, "holding register to read")
	value := flag.Int("value", 0, "coil value to write: 0 or 1")
	flag.Parse()

	handler := modbus.NewTCPClientHandler(*address)
	handler.SlaveId = byte(*slaveID)
	relay := modbusrelay.NewWithClient(modbus.NewClient(handler), handler.Close, uint16(*coil))

	var err error
	switch {
	case isFlagPassed("holdingreg"):
		var v int
		v, err = relay.ReadRegister(uint16(*holdingreg))
		fmt.Println("register value:", v)
	case isFlagPassed("value"):
		err = relay.SetActive(*value != 0)
	default:
		var active bool
		active, err = relay.Active()
		fmt.Println("relay active:", active)
	}

	if err != nil {
		log.Println("error was: ", err)
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
