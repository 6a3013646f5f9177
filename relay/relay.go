/*
NAME
  relay.go

DESCRIPTION
  relay.go provides the Relay type, which receives ARISR frames from a
  network segment, stamps the relay hop and forwards the rebuilt wire
  frames to the configured outputs. A session key file may be watched so
  the segment key can be rotated while the relay runs.

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


// Package relay provides an ARISR frame relay. Received frames are
// re-marked with this node's relay address and forwarded; the relay keeps
// no session state and never retries a send.
package relay

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ausocean/arisr/protocol/arisr"
	"github.com/ausocean/arisr/protocol/arisr/crypt"
	"github.com/ausocean/utils/logging"
)

// maxRetry is the widest value of the ctrl retry field; frames that have
// been relayed this many times are forwarded without a further increment.
const maxRetry = 0x0f

// Relay receives ARISR frames on one segment and forwards them to the
// configured outputs.
type Relay struct {
	cfg     Config
	clt     *arisr.Client
	senders []io.WriteCloser
	quit    chan struct{}
	wg      sync.WaitGroup
	log     logging.Logger
}

// New returns a pointer to a new Relay with the configuration provided.
func New(cfg Config) (*Relay, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "config could not be validated")
	}

	if cfg.KeyFile != "" {
		cfg.Key, err = loadKey(cfg.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "could not load key file")
		}
	}

	return &Relay{cfg: cfg, log: cfg.Logger}, nil
}

// Start creates the client and senders and starts the receive routine,
// along with the key watching routine if a key file has been configured.
// A stopped relay may be started again.
func (r *Relay) Start() error {
	r.log.Debug("relay is starting")

	var err error
	if r.cfg.KeyFile != "" {
		r.cfg.Key, err = loadKey(r.cfg.KeyFile)
		if err != nil {
			return errors.Wrap(err, "could not load key file")
		}
	}

	r.clt, err = arisr.NewClient(r.cfg.Input, r.cfg.Key, r.cfg.NetworkID)
	if err != nil {
		return errors.Wrap(err, "could not create client")
	}

	r.senders = r.senders[:0]
	for _, o := range r.cfg.Outputs {
		var s io.WriteCloser
		switch o {
		case OutputUDP:
			s, err = newUDPSender(r.cfg.UDPAddress, r.log, r.cfg.PoolCapacity, time.Duration(r.cfg.PoolWriteTimeout)*time.Second)
		case OutputFile:
			s, err = newFileSender(r.log, r.cfg.OutputPath, r.cfg.MaxFileSize)
		}
		if err != nil {
			r.clt.Close()
			return errors.Wrap(err, "could not create sender")
		}
		r.senders = append(r.senders, s)
	}

	r.quit = make(chan struct{})
	r.wg.Add(1)
	go r.run()
	if r.cfg.KeyFile != "" {
		r.wg.Add(1)
		go r.watchKey()
	}
	return nil
}

// Stop stops the relay's routines and closes the client and senders.
func (r *Relay) Stop() {
	r.log.Debug("relay is stopping")
	close(r.quit)
	r.clt.Close()
	r.wg.Wait()
	for _, s := range r.senders {
		err := s.Close()
		if err != nil {
			r.log.Error("could not close sender", "error", err)
		}
	}
}

// run is the relay's receive loop.
func (r *Relay) run() {
	defer r.wg.Done()
	for {
		select {
		case <-r.quit:
			return
		default:
			f, err := r.clt.Recv()
			if err != nil {
				if e, ok := err.(interface{ Timeout() bool }); ok && e.Timeout() {
					r.log.Debug("receive timeout")
					continue
				}
				r.log.Warning("could not receive frame", "error", err)
				continue
			}
			err = r.forward(f)
			if err != nil {
				r.log.Error("could not forward frame", "error", err)
			}
		}
	}
}

// forward stamps the relay hop on f, rebuilds the wire frame and writes
// it to every sender.
func (r *Relay) forward(f *arisr.Frame) error {
	f.Ctrl.From = true
	f.DestinationC = r.cfg.RelayAddress
	if f.Ctrl.Retry < maxRetry {
		f.Ctrl.Retry++
	}

	d, err := arisr.Build(f, r.clt.Key())
	if err != nil {
		return errors.Wrap(err, "could not build frame")
	}

	r.log.Debug("forwarding frame", "sequence", f.Ctrl.Sequence, "len", len(d))
	for _, s := range r.senders {
		_, err := s.Write(d)
		if err != nil {
			r.log.Warning("could not write to sender", "error", err)
		}
	}
	return nil
}

// watchKey watches the configured key file and swaps the session key on
// to the client whenever the file changes.
func (r *Relay) watchKey() {
	defer r.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.log.Error("could not create key watcher", "error", err)
		return
	}
	defer watcher.Close()

	err = watcher.Add(r.cfg.KeyFile)
	if err != nil {
		r.log.Error("could not watch key file", "error", err)
		return
	}

	for {
		select {
		case <-r.quit:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			k, err := loadKey(r.cfg.KeyFile)
			if err != nil {
				r.log.Warning("could not reload key file", "error", err)
				continue
			}
			r.clt.SetKey(k)
			r.log.Info("session key reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log.Warning("key watcher error", "error", err)
		}
	}
}

// loadKey reads a hex-encoded session key from the file at path.
func loadKey(path string) (crypt.Key, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return crypt.NullKey, errors.Wrap(err, "could not read key file")
	}
	return crypt.Parse(strings.TrimSpace(string(b)))
}
