package addr

import "net"

// ListenFunc is a variable that holds the reference to
// the Listen function to use, so that it can be mocked
// for tests.
var ListenFunc = Listen

// Listen creates a Listener listening on the specified address.
// It returns the listener, the port it uses (0 if not
// listening on a TCP address), or an error.
//
// The main purpose is to listen on port 0 and let the system
// select a free TCP port, and then get that port number back.
// server.Server.ListenAndServe calls this instead of net.Listen
// directly so it can record the RESP listener's actual bound port,
// which matters when Server.Addr asks for port 0. The --addr flag
// cannot ask for it: ParseAddr replaces a zero port with the default.
func Listen(addr net.Addr) (l net.Listener, port int, err error) {
	l, err = net.Listen(addr.Network(), addr.String())
	if err != nil {
		return nil, 0, err
	}
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	return l, port, nil
}
