package frontend

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/sensorstore/sensorstore/utils/log"
)

// session runs the read/dispatch/write loop for one accepted connection.
// Commands on a connection are processed strictly in arrival order. A
// dispatch error keeps the connection open; only transport errors end it.
type session struct {
	conn         net.Conn
	dispatcher   *Dispatcher
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func (s *session) serve() {
	defer s.conn.Close()

	remote := s.conn.RemoteAddr().String()
	log.Debug("session started for %s", remote)

	r := bufio.NewReader(s.conn)
	for {
		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		line, err := r.ReadString('\n')
		if err != nil {
			// A partial frame with no delimiter is dropped, as it always was.
			if !errors.Is(err, io.EOF) {
				log.Warn("session read for %s: %v", remote, err)
			}
			log.Debug("session ended for %s", remote)
			return
		}

		// Frames end with CRLF; a bare LF is tolerated on input.
		frame := strings.TrimRight(line, "\r\n")
		if frame == "" {
			continue
		}

		resp := s.dispatcher.Dispatch(frame)
		if s.writeTimeout > 0 {
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if _, err := s.conn.Write([]byte(resp + "\r\n")); err != nil {
			log.Warn("session write for %s: %v", remote, err)
			return
		}
	}
}
