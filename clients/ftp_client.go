package clients

import (
	"context"
	"io"
	"net"
	"net/url"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/pkg/errors"
)

const (
	defaultFtpPort       = "21"
	anonymousFtpUser     = "anonymous"
	anonymousFtpPassword = "anonymous@"
)

// DialFtp connects and logs in to the server of an ftp:// url. Credentials
// come from the url user info, anonymous otherwise. The connection is closed
// when ctx is done.
func DialFtp(ctx context.Context, u *url.URL, timeout time.Duration) (*ftp.ServerConn, error) {
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), defaultFtpPort)
	}
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(timeout))
	}
	conn, err := ftp.Dial(host, opts...)
	if err != nil {
		return nil, err
	}

	user, password := anonymousFtpUser, anonymousFtpPassword
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			password = p
		}
	}
	if err := conn.Login(user, password); err != nil {
		conn.Quit()
		return nil, err
	}
	return conn, nil
}

// FtpRetrieve returns the content of the file an ftp:// url points at. Closing
// the reader also closes the connection.
func FtpRetrieve(ctx context.Context, u *url.URL, timeout time.Duration) (io.ReadCloser, error) {
	conn, err := DialFtp(ctx, u, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "ftp dial %s", u.Host)
	}
	if dir := path.Dir(u.Path); dir != "" && dir != "/" && dir != "." {
		if err := conn.ChangeDir(dir); err != nil {
			conn.Quit()
			return nil, err
		}
	}
	resp, err := conn.Retr(path.Base(u.Path))
	if err != nil {
		conn.Quit()
		return nil, err
	}
	return &ftpReadCloser{resp: resp, conn: conn}, nil
}

type ftpReadCloser struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (r *ftpReadCloser) Read(p []byte) (int, error) {
	return r.resp.Read(p)
}

func (r *ftpReadCloser) Close() error {
	err := r.resp.Close()
	r.conn.Quit()
	return err
}
