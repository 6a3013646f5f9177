/*
DESCRIPTION
  arisr-relay is a daemon that relays ARISR frames between network
  segments, forwarding to UDP and/or file outputs.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package main is a program for relaying ARISR frames on marine telemetry
// networks.
package main

import (
	"encoding/hex"
	"flag"
	"io"
	"strconv"
	"time"

	"github.com/ausocean/arisr/protocol/arisr"
	"github.com/ausocean/arisr/relay"
	"github.com/ausocean/client/pi/netlogger"
	"github.com/ausocean/client/pi/netsender"
	"github.com/ausocean/client/pi/sds"
	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging related constants.
const (
	logPath      = "/var/log/arisr-relay/arisr-relay.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

// Netsender related consts.
const (
	netSendRetryTime = 5 * time.Second
	defaultSleepTime = 60 // Seconds.
)

// Relay modes.
const (
	modeNormal = "Normal"
	modePaused = "Paused"
)

func main() {
	input := flag.String("input", "", "Address of form <ip>:<port> to receive frames at.")
	forward := flag.String("forward", "", "Address of form <ip>:<port> to forward frames to.")
	output := flag.String("output", "", "Path prefix of timestamped files to write relayed frames to.")
	id := flag.String("id", "11223344", "Hex encoded 4-byte network id.")
	keyFile := flag.String("key-file", "", "Path to a file holding the hex encoded session key.")
	addr := flag.String("addr", "", "Hex encoded 6-byte address of this relay node.")
	flag.Parse()

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	// Create a netlogger to deal with logging to cloud.
	nl := netlogger.New()

	// Create logger that we call methods on to log.
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, nl), logSuppress)

	cfg := relay.Config{
		Input:   *input,
		KeyFile: *keyFile,
		Logger:  l,
	}

	netID, err := hex.DecodeString(*id)
	if err != nil || len(netID) != arisr.IDSize {
		l.Fatal("bad network id flag", "id", *id)
	}
	copy(cfg.NetworkID[:], netID)

	relayAddr, err := hex.DecodeString(*addr)
	if err != nil || len(relayAddr) != arisr.AddressSize {
		l.Fatal("bad relay address flag", "addr", *addr)
	}
	copy(cfg.RelayAddress[:], relayAddr)

	if *forward != "" {
		cfg.Outputs = append(cfg.Outputs, relay.OutputUDP)
		cfg.UDPAddress = *forward
	}
	if *output != "" {
		cfg.Outputs = append(cfg.Outputs, relay.OutputFile)
		cfg.OutputPath = *output
	}

	rl, err := relay.New(cfg)
	if err != nil {
		l.Fatal("could not create relay", "error", err)
	}

	// Create netsender client.
	ns, err := netsender.New(l, nil, readPin(), nil)
	if err != nil {
		l.Fatal("could not initialise netsender client", "error", err)
	}

	err = rl.Start()
	if err != nil {
		l.Fatal("could not start relay", "error", err)
	}
	l.Info("relay started", "input", cfg.Input)

	run(rl, ns, l, nl)
}

// run is a routine to deal with netsender related tasks, and relay mode
// switching requested through the cloud.
func run(rl *relay.Relay, ns *netsender.Sender, l logging.Logger, nl *netlogger.Logger) {
	var vs int
	paused := false
	for {
		err := ns.Run()
		if err != nil {
			l.Warning("Run Failed. Retrying...", "error", err)
			time.Sleep(netSendRetryTime)
			continue
		}

		err = nl.Send(ns)
		if err != nil {
			l.Warning("Logs could not be sent", "error", err.Error())
		}

		// If var sum hasn't changed we skip rest of loop.
		newVs := ns.VarSum()
		if vs == newVs {
			sleep(ns, l)
			continue
		}
		vs = newVs

		switch ns.Mode() {
		case modePaused:
			if !paused {
				l.Info("pausing relay")
				rl.Stop()
				paused = true
			}
		case modeNormal:
			if paused {
				l.Info("resuming relay")
				err = rl.Start()
				if err != nil {
					l.Error("could not resume relay", "error", err)
					continue
				}
				paused = false
			}
		}
	}
}

// sleep uses a delay to halt the program based on the monitoring period
// netsender parameter (mp) defined in the netsender.conf config.
func sleep(ns *netsender.Sender, l logging.Logger) {
	t, err := strconv.Atoi(ns.Param("mp"))
	if err != nil {
		l.Error("could not get sleep time, using default", "error", err)
		t = defaultSleepTime
	}
	time.Sleep(time.Duration(t) * time.Second)
}

// readPin provides a callback function of consistent signature for use by
// netsender to retrieve software defined pin values.
func readPin() func(pin *netsender.Pin) error {
	return func(pin *netsender.Pin) error {
		switch {
		case pin.Name[0] == 'X':
			return sds.ReadSystem(pin)
		default:
			pin.Value = -1
		}
		return nil
	}
}
