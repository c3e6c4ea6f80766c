// Package fetch mirrors one region's STORET legacy export from an FTP host
// into a local data directory.
package fetch

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jlaffaye/ftp"
)

type Client struct {
	host string
	root string
}

// New returns a client for host (host:port) rooted at the remote directory
// containing the regional export files.
func New(host, root string) *Client {
	return &Client{host: host, root: root}
}

// Mirror downloads the region's inventory files and county subdirectories
// into destDir. Files already present locally are kept, so an interrupted
// mirror can be resumed by running it again.
func (c *Client) Mirror(region, destDir string) error {
	region = strings.ToUpper(region)

	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Quit()

	entries, err := conn.List(c.root)
	if err != nil {
		return fmt.Errorf("ftp list %s: %w", c.root, err)
	}

	downloaded := 0
	for _, e := range entries {
		if !WantEntry(region, e.Name) {
			continue
		}
		switch e.Type {
		case ftp.EntryTypeFolder:
			n, err := c.mirrorDir(conn, path.Join(c.root, e.Name), filepath.Join(destDir, e.Name))
			if err != nil {
				return err
			}
			downloaded += n
		case ftp.EntryTypeFile:
			if !strings.HasSuffix(e.Name, ".txt") {
				continue
			}
			n, err := c.download(conn, path.Join(c.root, e.Name), filepath.Join(destDir, e.Name))
			if err != nil {
				return err
			}
			downloaded += n
		}
	}

	log.Printf("fetch: downloaded %d files for region %s", downloaded, region)
	return nil
}

func (c *Client) mirrorDir(conn *ftp.ServerConn, remoteDir, localDir string) (int, error) {
	entries, err := conn.List(remoteDir)
	if err != nil {
		return 0, fmt.Errorf("ftp list %s: %w", remoteDir, err)
	}

	downloaded := 0
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile || !strings.HasSuffix(e.Name, ".txt") {
			continue
		}
		n, err := c.download(conn, path.Join(remoteDir, e.Name), filepath.Join(localDir, e.Name))
		if err != nil {
			return downloaded, err
		}
		downloaded += n
	}
	return downloaded, nil
}

// download fetches one remote file unless it already exists locally.
// Returns 1 when a file was transferred, 0 when it was skipped.
func (c *Client) download(conn *ftp.ServerConn, remote, local string) (int, error) {
	if _, err := os.Stat(local); err == nil {
		return 0, nil
	}
	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		return 0, fmt.Errorf("create %s: %w", filepath.Dir(local), err)
	}

	resp, err := conn.Retr(remote)
	if err != nil {
		return 0, fmt.Errorf("ftp retr %s: %w", remote, err)
	}
	defer resp.Close()

	tmp := local + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("download %s: %w", remote, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, local); err != nil {
		return 0, err
	}

	log.Printf("fetch: %s", remote)
	return 1, nil
}

func (c *Client) dial() (*ftp.ServerConn, error) {
	var conn *ftp.ServerConn
	operation := func() error {
		cn, err := ftp.Dial(c.host, ftp.DialWithTimeout(30*time.Second))
		if err != nil {
			return fmt.Errorf("ftp dial: %w", err)
		}
		if err := cn.Login("anonymous", "anonymous"); err != nil {
			cn.Quit()
			return backoff.Permanent(fmt.Errorf("ftp login: %w", err))
		}
		conn = cn
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return conn, nil
}

// WantEntry reports whether a top-level entry name belongs to the region's
// export: {REGION}_{County}_inv.txt files and {REGION}_{County} directories.
func WantEntry(region, name string) bool {
	return strings.HasPrefix(name, region+"_")
}
