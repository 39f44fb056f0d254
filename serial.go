package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/tarm/serial"
)

const serialIdleTimeout = 2 * time.Second

func readSerial(device string, baud, maxLines int, warn *log.Logger) (*observations, int, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud, ReadTimeout: serialIdleTimeout})
	if err != nil {
		return nil, 0, fmt.Errorf("could not open serial port %s: %w", device, err)
	}
	defer port.Close()

	debugf("reading pairs from %s at %d baud", device, baud)
	return readPairs(idleReader{port}, maxLines, warn)
}

// idleReader ends the stream when a read times out without data.
type idleReader struct{ r io.Reader }

func (i idleReader) Read(p []byte) (int, error) {
	n, err := i.r.Read(p)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}
