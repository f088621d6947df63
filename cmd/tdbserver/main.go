// Command tdbserver runs the tick-database TCP server: one Session per
// accepted connection, each reading newline-terminated commands and
// writing text responses.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/fmagege/tectonicdb/internal/config"
	"github.com/fmagege/tectonicdb/internal/logging"
	"github.com/fmagege/tectonicdb/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tdbserver",
		Short: "Tick-database TCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, configPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "tdb.yaml", "path to config file")
	flags.String("addr", "", "TCP listen address (overrides config)")
	flags.String("dtf-folder", "", "data folder for .dtf files (overrides config)")
	flags.Bool("dev", false, "use development console logging")

	return cmd
}

func run(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	v := cfg.Viper()
	if err := v.BindPFlag("addr", cmd.Flags().Lookup("addr")); err != nil {
		return err
	}
	if err := v.BindPFlag("dtf_folder", cmd.Flags().Lookup("dtf-folder")); err != nil {
		return err
	}
	if err := v.BindPFlag("dev", cmd.Flags().Lookup("dev")); err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel(), v.GetBool("dev"))
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	folder := cfg.DTFFolder()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("tdbserver: create data folder %s: %w", folder, err)
	}

	addr := cfg.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("tdbserver: listen on %s: %w", addr, err)
	}
	defer listener.Close()

	log.Info("listening", zap.String("addr", addr), zap.String("dtf_folder", folder))

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error("accept failed", zap.Error(err))
			continue
		}
		go handleConn(conn, folder, log)
	}
}

// handleConn is the out-of-scope TCP listener plumbing: it owns the
// socket, not the protocol. Each line read is handed to a Session,
// whose response is written back verbatim.
func handleConn(conn net.Conn, folder string, log *zap.Logger) {
	defer conn.Close()

	connLog := log.With(zap.String("remote_addr", conn.RemoteAddr().String()))

	// Panic isolation is per-connection: a bug handling one client's
	// protocol stream must not take down the accept loop or any other
	// open connection.
	defer func() {
		if r := recover(); r != nil {
			connLog.Error("panic in session handler, connection closed", zap.Any("panic", r))
		}
	}()

	sess, err := session.New(folder, connLog)
	if err != nil {
		connLog.Error("session init failed", zap.Error(err))
		return
	}
	defer sess.Close()

	connLog.Info("session opened", zap.Uint64("session_id", sess.ID))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 2048), 1<<20)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		resp, err := sess.Dispatch(scanner.Text())
		if err != nil {
			connLog.Error("invariant violation, closing connection", zap.Error(err))
			writer.WriteString("ERR internal\n")
			writer.Flush()
			return
		}
		if resp == "" {
			continue
		}
		if _, err := writer.WriteString(resp); err != nil {
			connLog.Error("write failed", zap.Error(err))
			return
		}
		if err := writer.Flush(); err != nil {
			connLog.Error("flush failed", zap.Error(err))
			return
		}
	}
	if err := scanner.Err(); err != nil {
		connLog.Error("read failed", zap.Error(err))
	}
}
