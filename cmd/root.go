package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/avance-dl/avance/internal/config"
	"github.com/avance-dl/avance/internal/download"
	"github.com/avance-dl/avance/internal/output"
	"github.com/avance-dl/avance/internal/scheduler"
	"github.com/avance-dl/avance/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	outputPath    string
	destDir       string
	workers       int
	segments      int
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	keepPartial   bool
	debug         bool
)

var AvanceVersion = "dev"

var cfg = config.Default()
var globalHTTPConfig utils.HTTPClientConfig

// maxConnections caps workers x segments so batch runs don't open an
// unbounded number of sockets.
const maxConnections = 64

var rootCmd = &cobra.Command{
	Use:     "avance [URLS...]",
	Short:   "Avance is a fast concurrent download manager",
	Version: AvanceVersion,
	Args:    cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		if debug {
			// Debug logs go to a file so they don't clobber the live display.
			if logFile, err := os.OpenFile(utils.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				utils.SetLogOutput(logFile)
			}
		}
		loaded, err := config.Load(cfgFile)
		if err != nil {
			output.PrintWarning(fmt.Sprintf("Config load failed, using defaults: %v", err))
			loaded = config.Default()
		}
		cfg = loaded
		if !cmd.Flags().Changed("workers") {
			workers = cfg.Download.MaxWorkers
		}
		if !cmd.Flags().Changed("segments") {
			segments = cfg.Download.MaxSegments
		}
		if !cmd.Flags().Changed("timeout") {
			timeout = time.Duration(cfg.Download.TimeoutSeconds) * time.Second
		}
		if !cmd.Flags().Changed("user-agent") {
			userAgent = cfg.Download.UserAgent
		}
		if !cmd.Flags().Changed("keep-partial") {
			keepPartial = cfg.Download.KeepPartial
		}
		if userAgent == "randomize" {
			userAgent = utils.GetRandomUserAgent()
		}
		// Check if proxy URL contains auth
		parsedProxy, err := u.Parse(proxyURL)
		if err == nil && parsedProxy.User != nil && proxyUsername == "" {
			proxyUsername = parsedProxy.User.Username()
			if password, set := parsedProxy.User.Password(); set {
				proxyPassword = password
			}
			parsedProxy.User = nil
			proxyURL = parsedProxy.String()
		}
		globalHTTPConfig = utils.HTTPClientConfig{
			Timeout:       timeout,
			KATimeout:     kaTimeout,
			ProxyURL:      proxyURL,
			ProxyUsername: proxyUsername,
			ProxyPassword: proxyPassword,
			UserAgent:     userAgent,
			Headers:       utils.ParseHeaderArgs(headers),
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		requests := make([]download.Request, 0, len(args))
		segmentsPerLink := segments
		if len(args) > 1 && workers*segmentsPerLink > maxConnections {
			segmentsPerLink = max(maxConnections/workers, 1)
		}
		for _, link := range args {
			req := buildRequest(link, segmentsPerLink)
			if len(args) == 1 && outputPath != "" {
				req.DestDir = filepath.Dir(outputPath)
				req.Filename = filepath.Base(outputPath)
			}
			requests = append(requests, req)
		}
		results := scheduler.Run(context.Background(), requests, workers)
		if results.Failed() > 0 {
			fmt.Println()
			output.PrintError("Encountered failed download(s)")
			os.Exit(1)
		}
	},
}

func buildRequest(link string, segmentCount int) download.Request {
	dir := destDir
	if dir == "" {
		dir = cfg.Download.DefaultDestination
	}
	return download.Request{
		URL:            link,
		DestDir:        dir,
		Segments:       segmentCount,
		ChunkSize:      cfg.Download.ChunkSize,
		RetryAttempts:  cfg.Download.RetryAttempts,
		MinSegmentSize: cfg.Download.MinFileSizeForSegmentation,
		KeepPartial:    keepPartial,
		Timeout:        timeout,
		ClientConfig:   globalHTTPConfig,
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default ./avance.yaml or ~/.avance/avance.yaml)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", utils.DefaultWorkers, "Number of files to download in parallel")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", utils.DefaultTimeout, "Per-request timeout (eg. 30s, 5m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent ('randomize' picks one)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path for a single URL (name inferred if not provided)")
	rootCmd.Flags().StringVarP(&destDir, "dir", "d", "", "Destination directory for downloads")
	rootCmd.Flags().IntVarP(&segments, "segments", "c", utils.DefaultSegments, "Number of range segments per download (clamped 2-16)")
	rootCmd.Flags().BoolVar(&keepPartial, "keep-partial", false, "Retain partial temp files after a failed download")

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newCompressCmd())
	rootCmd.AddCommand(newStorageCmd())
	rootCmd.AddCommand(newFilesCmd())
}
