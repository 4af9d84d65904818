// meshpdu builds a single outbound Bluetooth Mesh network PDU from a
// persisted network document and prints it as hex.
//
// Usage:
//
//	meshpdu -doc network.json -model 59000600e001 -src 0x7F16 -dst 0x000C -ttl 7
//
// Options:
//
//	-doc      Path to the JSON network document (required)
//	-model    Hex-encoded model message, 1-11 bytes (required)
//	-app-idx  Application key index to encrypt under (default 0)
//	-dev      Use the provisioner device key instead of -app-idx
//	-src      Source unicast address, decimal or 0x-prefixed hex (required)
//	-dst      Destination address, decimal or 0x-prefixed hex (required)
//	-ttl      Time to live, 0-127 (default 7)
//	-seq      Sequence number to use; if omitted, the network's next
//	          sequence number is consumed and, with -save, persisted
//	-save     Write the network document back out after building the PDU,
//	          so the consumed sequence number is not replayed
//	-control-byte     Prefix the spec-conformant transport control byte
//	-legacy-privacy   Use the zero-padded legacy privacy-random layout
//	-debug    Emit debug-level diagnostic logging
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pion/logging"

	"github.com/meshwire/provisioner-core/pkg/access"
	"github.com/meshwire/provisioner-core/pkg/meshnet"
	"github.com/meshwire/provisioner-core/pkg/meshnet/store"
)

func main() {
	docPath := flag.String("doc", "", "path to the JSON network document")
	modelHex := flag.String("model", "", "hex-encoded model message")
	appIdx := flag.Uint("app-idx", 0, "application key index")
	devKey := flag.Bool("dev", false, "use the provisioner device key")
	srcFlag := flag.String("src", "", "source unicast address")
	dstFlag := flag.String("dst", "", "destination address")
	ttl := flag.Uint("ttl", 7, "time to live")
	seqFlag := flag.Int64("seq", -1, "sequence number (-1 = consume the network's next)")
	save := flag.Bool("save", false, "persist the network document after building the PDU")
	includeControlByte := flag.Bool("control-byte", false, "prefix the spec-conformant transport control byte")
	legacyPrivacy := flag.Bool("legacy-privacy", false, "use the legacy zero-padded privacy-random layout")
	debug := flag.Bool("debug", false, "emit debug-level diagnostic logging")
	flag.Parse()

	if *docPath == "" || *modelHex == "" || *srcFlag == "" || *dstFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	model, err := hex.DecodeString(*modelHex)
	if err != nil {
		log.Fatalf("meshpdu: invalid -model: %v", err)
	}
	src, err := parseAddress(*srcFlag)
	if err != nil {
		log.Fatalf("meshpdu: invalid -src: %v", err)
	}
	dst, err := parseAddress(*dstFlag)
	if err != nil {
		log.Fatalf("meshpdu: invalid -dst: %v", err)
	}

	f, err := os.Open(*docPath)
	if err != nil {
		log.Fatalf("meshpdu: open %s: %v", *docPath, err)
	}
	id, net, err := store.LoadDocument(f)
	f.Close()
	if err != nil {
		log.Fatalf("meshpdu: load %s: %v", *docPath, err)
	}

	var sel meshnet.KeySelector
	if *devKey {
		sel = meshnet.DevKey()
	} else {
		sel = meshnet.AppKeyIndex(uint16(*appIdx))
	}

	seq := uint32(*seqFlag)
	if *seqFlag < 0 {
		seq, err = net.NextSequence()
		if err != nil {
			log.Fatalf("meshpdu: %v", err)
		}
	}

	level := logging.LogLevelWarn
	if *debug {
		level = logging.LogLevelDebug
	}
	loggerFactory := logging.NewDefaultLoggerFactory()
	loggerFactory.DefaultLogLevel = level
	logger := loggerFactory.NewLogger("meshpdu")

	opts := access.Options{
		IncludeTransportControlByte: *includeControlByte,
		LegacyPrivacyRandom:         *legacyPrivacy,
	}
	pdu, err := access.BuildNetworkPDU(logger, net, model, sel, seq, uint16(src), uint16(dst), uint8(*ttl), opts)
	if err != nil {
		log.Fatalf("meshpdu: build network pdu: %v", err)
	}

	fmt.Println(hex.EncodeToString(pdu))

	if *save {
		out, err := os.Create(*docPath)
		if err != nil {
			log.Fatalf("meshpdu: save %s: %v", *docPath, err)
		}
		defer out.Close()
		if err := store.SaveDocument(out, id, net); err != nil {
			log.Fatalf("meshpdu: save %s: %v", *docPath, err)
		}
	}
}

// parseAddress accepts decimal or 0x-prefixed hex addresses.
func parseAddress(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 16)
}
