// zx-rs232 - capture ZX Spectrum listings over RS-232
// Opens a serial port, asserts the handshake lines an Interface 1
// expects, and writes everything the Spectrum sends (LLIST, LPRINT)
// to a file, recording the session in the capture catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/stefdev49/vs-zx-sub004/pkg/capture"
)

const versionStr = "0.3.0"

var (
	portFlag     = flag.String("port", "/dev/ttyUSB0", "serial device to read from")
	baudFlag     = flag.Int("baud", 19200, "baud rate (Interface 1: FORMAT \"b\";19200)")
	outFlag      = flag.String("out", "", "output file (default capture_YYYYMMDD_HHMMSS.bin)")
	durationFlag = flag.Duration("duration", 0, "stop after this long (0 = run until interrupted)")
	sevenBitFlag = flag.Bool("seven-bit", false, "strip bit 7 from every received byte")
	noDTRFlag    = flag.Bool("no-dtr", false, "do not assert DTR after opening the port")
	noRTSFlag    = flag.Bool("no-rts", false, "do not assert RTS after opening the port")
	hexFlag      = flag.Bool("hex", false, "echo received data as an offset hexdump")
	monitorFlag  = flag.Bool("monitor", false, "watch modem lines for changes instead of capturing")
	listFlag     = flag.Bool("list-ports", false, "list available serial ports and exit")
	catalogFlag  = flag.Bool("catalog", false, "print recorded captures and exit")
	noCatalog    = flag.Bool("no-catalog", false, "do not record this capture in the catalog")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Printf("zx-rs232 version %s\n", versionStr)
		return
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *debugFlag {
		log.SetLevel(logrus.DebugLevel)
	}

	if *listFlag {
		listPorts(log)
		return
	}
	if *catalogFlag {
		printCatalog(log)
		return
	}

	out := *outFlag
	if out == "" {
		out = time.Now().Format("capture_20060102_150405.bin")
	}

	mode := &serial.Mode{
		BaudRate: *baudFlag,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(*portFlag, mode)
	if err != nil {
		log.WithError(err).Fatalf("open %s", *portFlag)
	}
	defer port.Close()

	// The Spectrum holds back until DTR is high.
	if !*noDTRFlag {
		if err := port.SetDTR(true); err != nil {
			log.WithError(err).Warn("assert DTR")
		}
	}
	if !*noRTSFlag {
		if err := port.SetRTS(true); err != nil {
			log.WithError(err).Warn("assert RTS")
		}
	}
	reportStatus(log, port)

	if *monitorFlag {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		monitorLines(ctx, log, port)
		return
	}

	f, err := os.Create(out)
	if err != nil {
		log.WithError(err).Fatalf("create %s", out)
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *durationFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *durationFlag)
		defer cancel()
	}

	log.WithFields(logrus.Fields{
		"port": *portFlag,
		"baud": *baudFlag,
		"out":  out,
	}).Info("capturing, LLIST on the Spectrum now (Ctrl-C to stop)")

	started := time.Now()
	total, err := pump(ctx, port, f)
	seconds := time.Since(started).Seconds()
	if err != nil {
		log.WithError(err).Error("capture aborted")
	}
	log.WithFields(logrus.Fields{
		"bytes":   total,
		"seconds": fmt.Sprintf("%.1f", seconds),
	}).Info("capture finished")

	if *noCatalog || total == 0 {
		return
	}
	recordCapture(log, &capture.Capture{
		Port:      *portFlag,
		Baud:      *baudFlag,
		File:      out,
		StartedAt: started.Format(time.RFC3339),
		Seconds:   seconds,
		Bytes:     total,
		SevenBit:  *sevenBitFlag,
	})
}

// pump copies port to f in 500 ms read slices so interrupts and
// deadlines are noticed between reads.
func pump(ctx context.Context, port serial.Port, f *os.File) (int, error) {
	if err := port.SetReadTimeout(500 * time.Millisecond); err != nil {
		return 0, err
	}
	buf := make([]byte, 4096)
	total := 0
	for {
		select {
		case <-ctx.Done():
			return total, nil
		default:
		}
		n, err := port.Read(buf)
		if err != nil {
			return total, err
		}
		if n == 0 {
			continue
		}
		chunk := buf[:n]
		if *sevenBitFlag {
			for i := range chunk {
				chunk[i] &= 0x7f
			}
		}
		if _, err := f.Write(chunk); err != nil {
			return total, err
		}
		echo(chunk, total)
		total += n
	}
}

// echo mirrors each chunk to stdout, as a one-line summary or as an
// offset hexdump with -hex.
func echo(chunk []byte, base int) {
	if *hexFlag {
		hexdump(os.Stdout, chunk, base)
		return
	}
	fmt.Printf("+%d bytes | ASCII: %s | HEX: % X\n", len(chunk), printable(chunk), chunk)
}

func hexdump(w io.Writer, b []byte, base int) {
	for off := 0; off < len(b); off += 16 {
		end := off + 16
		if end > len(b) {
			end = len(b)
		}
		row := b[off:end]
		fmt.Fprintf(w, "%08X: %-47s  |%s|\n", base+off, fmt.Sprintf("% X", row), printable(row))
	}
}

func printable(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// monitorLines polls the modem status lines and logs every transition,
// for checking cable wiring before a capture.
func monitorLines(ctx context.Context, log *logrus.Logger, port serial.Port) {
	log.Info("monitoring modem lines (Ctrl-C to stop)")
	var prev *serial.ModemStatusBits
	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		bits, err := port.GetModemStatusBits()
		if err != nil {
			log.WithError(err).Error("read modem status")
			return
		}
		if prev != nil && *bits == *prev {
			continue
		}
		log.WithFields(logrus.Fields{
			"CTS": bits.CTS,
			"DSR": bits.DSR,
			"CD":  bits.DCD,
			"RI":  bits.RI,
		}).Info("lines changed")
		prev = bits
	}
}

func reportStatus(log *logrus.Logger, port serial.Port) {
	bits, err := port.GetModemStatusBits()
	if err != nil {
		log.WithError(err).Debug("modem status unavailable")
		return
	}
	log.WithFields(logrus.Fields{
		"CTS": bits.CTS,
		"DSR": bits.DSR,
		"CD":  bits.DCD,
		"RI":  bits.RI,
	}).Info("modem status")
}

func listPorts(log *logrus.Logger) {
	ports, err := serial.GetPortsList()
	if err != nil {
		log.WithError(err).Fatal("enumerate serial ports")
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}

func printCatalog(log *logrus.Logger) {
	store, err := capture.Open(nil)
	if err != nil {
		log.WithError(err).Fatal("open capture catalog")
	}
	defer store.Close()
	caps, err := store.List()
	if err != nil {
		log.WithError(err).Fatal("list captures")
	}
	if len(caps) == 0 {
		fmt.Println("no captures recorded")
		return
	}
	for _, c := range caps {
		fmt.Printf("%s  %s  %7d bytes  %s @ %d  %s\n",
			c.ID, c.StartedAt, c.Bytes, c.Port, c.Baud, c.File)
	}
}

func recordCapture(log *logrus.Logger, c *capture.Capture) {
	store, err := capture.Open(nil)
	if err != nil {
		log.WithError(err).Warn("capture catalog unavailable")
		return
	}
	defer store.Close()
	id, err := store.Record(c)
	if err != nil {
		log.WithError(err).Warn("record capture")
		return
	}
	log.WithFields(logrus.Fields{"id": id, "db": store.Path()}).Info("capture recorded")
}
