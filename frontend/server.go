package frontend

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sensorstore/sensorstore/store"
	"github.com/sensorstore/sensorstore/utils"
	"github.com/sensorstore/sensorstore/utils/log"
)

// Server accepts TCP connections and runs one session goroutine per
// connection until Shutdown.
type Server struct {
	dispatcher   *Dispatcher
	readTimeout  time.Duration
	writeTimeout time.Duration

	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	sessions map[net.Conn]struct{}
	closed   bool
}

func NewServer(s *store.Store, cfg *utils.Config) *Server {
	return &Server{
		dispatcher:   NewDispatcher(s, cfg.Timezone),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		sessions:     make(map[net.Conn]struct{}),
	}
}

// Listen binds the listening socket. port may be given as "5555" or ":5555"
// or a full "host:port" address.
func (srv *Server) Listen(port string) error {
	addr := port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv.listener = ln
	return nil
}

// Addr returns the bound listener address. Listen must have succeeded.
func (srv *Server) Addr() net.Addr {
	return srv.listener.Addr()
}

// Serve runs the accept loop until Shutdown closes the listener.
func (srv *Server) Serve() error {
	log.Info("listening for connections on %s", srv.listener.Addr())
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		srv.mu.Lock()
		if srv.closed {
			srv.mu.Unlock()
			conn.Close()
			return nil
		}
		srv.sessions[conn] = struct{}{}
		srv.mu.Unlock()

		srv.wg.Add(1)
		go func() {
			defer srv.wg.Done()
			sess := &session{
				conn:         conn,
				dispatcher:   srv.dispatcher,
				readTimeout:  srv.readTimeout,
				writeTimeout: srv.writeTimeout,
			}
			sess.serve()
			srv.mu.Lock()
			delete(srv.sessions, conn)
			srv.mu.Unlock()
		}()
	}
}

// Shutdown stops accepting, closes live sessions, and waits for their
// goroutines to finish. In-flight appends complete before the store sees
// another operation from that connection.
func (srv *Server) Shutdown() {
	srv.mu.Lock()
	srv.closed = true
	conns := make([]net.Conn, 0, len(srv.sessions))
	for conn := range srv.sessions {
		conns = append(conns, conn)
	}
	srv.mu.Unlock()

	if srv.listener != nil {
		srv.listener.Close()
	}
	for _, conn := range conns {
		conn.Close()
	}
	srv.wg.Wait()
}
