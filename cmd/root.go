package cmd

import (
	"fmt"
	u "net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/utils"
)

var (
	outputDir     string
	workers       int
	connections   int
	chunkSizeFlag string
	chunkSize     int64
	quality       string
	timeout       time.Duration
	kaTimeout     time.Duration
	proxyURL      string
	proxyUsername string
	proxyPassword string
	apiHost       string
	s3Dest        string
	s3Profile     string
	debug         bool
	logFile       string

	globalHTTPConfig utils.HTTPClientConfig
)

var BilidlVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "bilidl",
	Short:   "bilidl downloads bilibili videos with concurrent ranged requests",
	Version: BilidlVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := utils.InitLogger(debug, logFile); err != nil {
			return err
		}
		size, err := utils.ParseSize(chunkSizeFlag)
		if err != nil {
			return fmt.Errorf("invalid --chunk-size: %v", err)
		}
		chunkSize = size
		if _, err := bili.ParseQuality(quality); err != nil {
			return err
		}
		// proxy credentials embedded in the URL are moved into the config
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
			KATimeout:      kaTimeout,
			ProxyURL:       proxyURL,
			ProxyUsername:  proxyUsername,
			ProxyPassword:  proxyPassword,
			HighThreadMode: connections > utils.DefaultConnections,
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputDir, "output", "o", ".", "Output directory")
	flags.IntVarP(&workers, "workers", "w", utils.DefaultWorkers, "Number of videos to download in parallel")
	flags.IntVarP(&connections, "connections", "c", utils.DefaultConnections, "Number of concurrent range requests per video (above 8 enables high-thread-mode)")
	flags.StringVar(&chunkSizeFlag, "chunk-size", "4M", "Size of each range request (eg. 512K, 4M); 0 downloads in one request")
	flags.StringVarP(&quality, "quality", "q", "default", "Video quality (default, low, high)")
	flags.DurationVarP(&timeout, "timeout", "t", 0, "Deadline for each video download, 0 for none (eg. 5m)")
	flags.DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	flags.StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	flags.StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	flags.StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	flags.StringVar(&apiHost, "api-host", bili.DefaultAPIHost, "API host")
	flags.StringVar(&s3Dest, "s3", "", "Upload finished videos to this S3 location (s3://bucket/prefix)")
	flags.StringVar(&s3Profile, "s3-profile", "", "AWS profile used for --s3")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&logFile, "log-file", "", "Write logs as JSON to this file")

	rootCmd.AddCommand(newAVCmd())
	rootCmd.AddCommand(newBVCmd())
	rootCmd.AddCommand(newSeasonCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}
