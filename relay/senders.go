/*
NAME
  senders.go

DESCRIPTION
  senders.go provides the output destinations a relay can forward wire
  frames to: a UDP segment and rolling files.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package relay

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/ausocean/arisr/protocol/arisr"
	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

// Sender pool buffer read timeout.
const udpPoolReadTimeout = 1 * time.Second

// udpSender implements io.WriteCloser and provides sending capability
// over UDP. Writes are decoupled from the segment through a pool buffer
// drained by an output routine, so a slow segment cannot stall the relay
// receive loop.
type udpSender struct {
	conn net.Conn
	log  logging.Logger
	pool *pool.Buffer
	done chan struct{}
	wg   sync.WaitGroup
}

// newUDPSender returns a new udpSender. addr is the forwarding
// destination of form <ip>:<port>.
func newUDPSender(addr string, log logging.Logger, poolCapacity uint, writeTimeout time.Duration) (*udpSender, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not dial UDP destination: %w", err)
	}

	s := &udpSender{
		conn: conn,
		log:  log,
		pool: pool.NewBuffer(int(poolCapacity)/arisr.MaxFrameSize, arisr.MaxFrameSize, writeTimeout),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.output()
	return s, nil
}

// output starts a udpSender's data handling routine.
func (s *udpSender) output() {
	var chunk *pool.Chunk
	for {
		select {
		case <-s.done:
			s.log.Info("terminating sender output routine")
			defer s.wg.Done()
			return
		default:
			// If chunk is nil then we're ready to get another from the pool buffer.
			if chunk == nil {
				var err error
				chunk, err = s.pool.Next(udpPoolReadTimeout)
				switch err {
				case nil, io.EOF:
					continue
				case pool.ErrTimeout:
					s.log.Debug("udpSender: pool buffer read timeout")
					continue
				default:
					s.log.Error("unexpected error", "error", err.Error())
					continue
				}
			}
			_, err := s.conn.Write(chunk.Bytes())
			if err != nil {
				s.log.Warning("send error", "error", err)
			}
			chunk.Close()
			chunk = nil
		}
	}
}

// Write implements io.Writer. Each write is one wire frame; frames are
// bounded by the protocol, so a too-long write indicates a caller bug and
// is dropped.
func (s *udpSender) Write(d []byte) (int, error) {
	s.log.Debug("writing to pool buffer")
	_, err := s.pool.Write(d)
	if err == nil {
		s.pool.Flush()
		s.log.Debug("good pool buffer write", "len", len(d))
	} else {
		s.log.Warning("pool buffer write error", "error", err.Error())
	}
	return len(d), nil
}

// Close closes the udpSender and its connection.
func (s *udpSender) Close() error {
	close(s.done)
	s.wg.Wait()
	return s.conn.Close()
}

// fileSender implements io.WriteCloser for appending wire frames to
// files, rolling over to a new file when the size limit is reached.
type fileSender struct {
	file        *os.File
	maxFileSize uint // maxFileSize is in bytes. A size of 0 means there is no size limit.
	path        string
	log         logging.Logger
}

// newFileSender returns a new fileSender writing to files named path
// followed by a creation timestamp.
func newFileSender(l logging.Logger, path string, maxFileSize uint) (*fileSender, error) {
	return &fileSender{
		path:        path,
		log:         l,
		maxFileSize: maxFileSize,
	}, nil
}

// Write implements io.Writer.
func (s *fileSender) Write(d []byte) (int, error) {
	// If the write will exceed the max file size, close the file so that a new one can be created.
	if s.maxFileSize != 0 && s.file != nil {
		fileInfo, err := s.file.Stat()
		if err != nil {
			return 0, fmt.Errorf("could not read file stats: %w", err)
		}
		size := uint(fileInfo.Size())
		s.log.Debug("checked file size", "bytes", size)
		if size+uint(len(d)) > s.maxFileSize {
			s.log.Debug("new write would exceed max file size, closing existing file", "maxFileSize", s.maxFileSize)
			s.file.Close()
			s.file = nil
		}
	}

	if s.file == nil {
		fileName := s.path + time.Now().Format("2006-01-02_15-04-05")
		s.log.Debug("creating new output file", "fileName", fileName)
		f, err := os.Create(fileName)
		if err != nil {
			return 0, fmt.Errorf("could not create file to write frames to: %w", err)
		}
		s.file = f
	}

	s.log.Debug("writing to output file", "bytes", len(d))
	return s.file.Write(d)
}

// Close closes the fileSender's current file.
func (s *fileSender) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
