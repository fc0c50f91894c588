// Package main is the entry point for the Perlustro CLI
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/su1ph3r/perlustro/internal/allowlist"
	"github.com/su1ph3r/perlustro/internal/crawler"
	"github.com/su1ph3r/perlustro/internal/detector"
	"github.com/su1ph3r/perlustro/internal/engine"
	"github.com/su1ph3r/perlustro/internal/payloads"
	"github.com/su1ph3r/perlustro/internal/reporter"
	"github.com/su1ph3r/perlustro/pkg/types"
)

var (
	version = "1.0.0"
	cfgFile string
	config  *types.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "perlustro",
	Short: "Perlustro - Web Vulnerability Scanner",
	Long: `Perlustro (Latin: "to scan, to examine thoroughly") is a web vulnerability
scanner for authorized security testing. It crawls a target site, generates
payload-driven test cases against discovered forms and URL parameters, and
classifies the responses into findings.

Perlustro refuses to scan targets that are not allowlisted or explicitly
confirmed. Only use it against systems you have permission to test.`,
	Version: version,
}

var scanCmd = &cobra.Command{
	Use:   "scan [target-url]",
	Short: "Crawl and scan a target for vulnerabilities",
	Long: `Crawl the target site, generate test cases from discovered forms and
parameterized URLs, execute them, and report findings.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [target-url]",
	Short: "Crawl a target and print discovered surfaces",
	Long:  `Crawl the target site and print discovered pages, forms, and parameterized URLs as JSON without sending any payloads.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCrawl,
}

var payloadsCmd = &cobra.Command{
	Use:   "payloads",
	Short: "List the payload catalog",
	RunE:  runPayloads,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify Perlustro configuration settings`,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set(args[0], args[1])
		return viper.WriteConfig()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(viper.Get(args[0]))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		for k, v := range viper.AllSettings() {
			fmt.Printf("%s: %v\n", k, v)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.perlustro.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Crawl flags shared by scan and crawl
	for _, cmd := range []*cobra.Command{scanCmd, crawlCmd} {
		cmd.Flags().IntP("depth", "d", 2, "Maximum crawl depth")
		cmd.Flags().Int("crawl-concurrency", 5, "Concurrent crawl fetches")
		cmd.Flags().Duration("delay", 200*time.Millisecond, "Politeness delay between fetches")
		cmd.Flags().String("proxy", "", "HTTP proxy URL")
		cmd.Flags().StringToString("headers", map[string]string{}, "Additional headers")
	}
	crawlCmd.Flags().Bool("verbose", false, "Verbose output")

	// Scan command flags
	scanCmd.Flags().Int("concurrency", 5, "Concurrent test case submissions")
	scanCmd.Flags().Float64("rate-limit", 0, "Requests per second (0 = unlimited)")
	scanCmd.Flags().Duration("timeout", 10*time.Second, "Request timeout")
	scanCmd.Flags().Bool("no-ssl-verify", false, "Skip SSL certificate verification")

	scanCmd.Flags().StringP("profile", "p", "safe", "Payload profile (safe, lab, all)")
	scanCmd.Flags().Int("per-field", 2, "Payloads per category per field")
	scanCmd.Flags().Int("max-tests", 200, "Maximum total test cases (0 = unlimited)")
	scanCmd.Flags().Bool("lab", false, "Include lab-only payloads (authorized lab targets only)")
	scanCmd.Flags().String("custom-payloads", "", "Custom payload catalog (YAML)")

	scanCmd.Flags().String("allowlist", "allowlist.txt", "Allowlist file of pre-authorized domains")
	scanCmd.Flags().String("confirm-allow", "", "Confirmation token for targets outside the allowlist")

	scanCmd.Flags().StringP("output", "o", "", "Output file path (text format prints to stdout if not specified)")
	scanCmd.Flags().StringP("format", "f", "json", "Output format (json, html, text)")
	scanCmd.Flags().Bool("verbose", false, "Verbose output")

	payloadsCmd.Flags().StringP("profile", "p", "safe", "Payload profile (safe, lab, all)")

	// Add commands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(payloadsCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".perlustro")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PERLUSTRO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	_ = viper.ReadInConfig()

	config = types.DefaultConfig()
	_ = viper.Unmarshal(config)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printWarning("\nInterrupted, shutting down...")
		cancel()
	}()

	target := args[0]
	if err := types.ValidateURL(target); err != nil {
		return err
	}

	updateConfigFromFlags(cmd)
	if err := types.ValidateConfig(config); err != nil {
		return err
	}

	// Permission gate before any traffic is sent
	allowlistPath, _ := cmd.Flags().GetString("allowlist")
	confirm, _ := cmd.Flags().GetString("confirm-allow")
	list, err := allowlist.Load(allowlistPath)
	if err != nil {
		return fmt.Errorf("failed to load allowlist: %w", err)
	}
	if !list.Check(target, confirm) {
		printError("Domain %q is not in the allowlist.", allowlist.Domain(target))
		printWarning("To scan this target, add its domain to %s or pass --confirm-allow %s (only if you have explicit permission).", allowlistPath, allowlist.ConfirmToken)
		return fmt.Errorf("target not authorized: %s", target)
	}
	if !list.Contains(allowlist.Domain(target)) {
		printWarning("Scanning %s with explicit confirmation.", allowlist.Domain(target))
	}

	printBanner()
	printInfo("Target: %s", target)

	// Crawl
	printInfo("Crawling (depth %d, concurrency %d)...", config.Crawl.MaxDepth, config.Crawl.Concurrency)
	sink := newConsoleSink(cmd)
	crawl := crawler.New(config, sink)
	crawlResult, err := crawl.Crawl(ctx, target)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	printSuccess("Discovered %d pages, %d forms, %d parameterized URLs",
		len(crawlResult.Pages), len(crawlResult.Forms), len(crawlResult.Params))

	// Build payload catalog
	catalog, err := payloads.ForProfile(config.Payloads.Profile)
	if err != nil {
		return err
	}
	if config.Payloads.CustomPayloads != "" {
		custom, err := payloads.LoadCustom(config.Payloads.CustomPayloads)
		if err != nil {
			return err
		}
		catalog = payloads.Merge(catalog, custom)
		printInfo("Merged custom payloads from %s", config.Payloads.CustomPayloads)
	}

	// Generate test cases
	gen := payloads.NewGenerator(catalog, config.Payloads.PerField)
	cases := gen.Generate(crawlResult)
	cases = payloads.Filter(cases, config.Payloads.IncludeLabOnly, config.Payloads.MaxTests)
	printInfo("Generated %d test cases", len(cases))
	if config.Payloads.IncludeLabOnly {
		printWarning("Lab-only payloads enabled. Do not use against production systems.")
	}

	// Execute and classify
	printInfo("Starting scan...")
	startTime := time.Now()

	exec := engine.NewEngine(config, sink)
	classifier := detector.NewClassifier(config.Output.MaxEvidence)
	verbose, _ := cmd.Flags().GetBool("verbose")

	var findings []types.Finding
	processed := 0
	for result := range exec.Run(ctx, cases) {
		processed++

		if f := classifier.Classify(result.Case, result.Response); f != nil {
			findings = append(findings, *f)
			printFinding(*f, verbose)
		}

		if processed%50 == 0 {
			printProgress(processed, len(cases))
		}
	}

	endTime := time.Now()

	scanResult := &types.ScanResult{
		ScanID:    uuid.New().String(),
		Target:    target,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
		Findings:  findings,
		Summary:   types.NewScanSummary(findings),
		Pages:     len(crawlResult.Pages),
		Requests:  processed,
		Config: &types.ScanInfo{
			Target:      target,
			MaxDepth:    config.Crawl.MaxDepth,
			Concurrency: config.Scan.Concurrency,
			RateLimit:   config.Scan.RateLimit,
			Timeout:     int(config.Scan.Timeout.Seconds()),
			Profile:     config.Payloads.Profile,
			MaxTests:    config.Payloads.MaxTests,
			LabMode:     config.Payloads.IncludeLabOnly,
		},
	}

	printSummary(scanResult)

	// Generate report
	outputFile, _ := cmd.Flags().GetString("output")
	outputFormat, _ := cmd.Flags().GetString("format")

	rep, err := reporter.NewReporter(outputFormat, reporter.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to create reporter: %w", err)
	}

	// Text reports go to stdout unless a file was asked for
	if (outputFormat == "text" || outputFormat == "txt") && outputFile == "" {
		fmt.Println()
		if err := rep.Write(scanResult, os.Stdout); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	if outputFile == "" {
		outputFile = fmt.Sprintf("perlustro-report-%s", time.Now().Format("20060102-150405"))
	}
	outputPath := outputFile
	if !strings.HasSuffix(outputPath, "."+rep.Extension()) {
		outputPath = outputFile + "." + rep.Extension()
	}

	if err := reporter.WriteToFile(rep, scanResult, outputPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	printSuccess("Report saved to: %s", outputPath)

	return nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	target := args[0]
	if err := types.ValidateURL(target); err != nil {
		return err
	}

	updateConfigFromFlags(cmd)

	crawl := crawler.New(config, newConsoleSink(cmd))
	result, err := crawl.Crawl(ctx, target)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func runPayloads(cmd *cobra.Command, args []string) error {
	profile, _ := cmd.Flags().GetString("profile")
	catalog, err := payloads.ForProfile(profile)
	if err != nil {
		return err
	}

	for _, category := range catalog.Categories() {
		fmt.Printf("%s (%d payloads)\n", category, len(catalog[category]))
		for _, p := range catalog[category] {
			label := p.Value
			if label == "" {
				label = fmt.Sprintf("directive kind=%s delta=%d value=%d", p.Kind, p.Delta, p.Fixed)
			}
			marker := ""
			if payloads.IsLabOnly(category, p) {
				marker = " [lab-only]"
			}
			fmt.Printf("  %-60s %s%s\n", label, p.Note, marker)
		}
		fmt.Println()
	}

	return nil
}

// updateConfigFromFlags overrides config values with explicitly set flags
func updateConfigFromFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("depth") {
		config.Crawl.MaxDepth, _ = flags.GetInt("depth")
	}
	if flags.Changed("crawl-concurrency") {
		config.Crawl.Concurrency, _ = flags.GetInt("crawl-concurrency")
	}
	if flags.Changed("delay") {
		config.Crawl.Delay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("concurrency") {
		config.Scan.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("rate-limit") {
		config.Scan.RateLimit, _ = flags.GetFloat64("rate-limit")
	}
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		config.Scan.Timeout = timeout
		config.Crawl.Timeout = timeout
	}
	if flags.Changed("no-ssl-verify") {
		noVerify, _ := flags.GetBool("no-ssl-verify")
		config.Scan.VerifySSL = !noVerify
	}
	if flags.Changed("proxy") {
		config.HTTP.ProxyURL, _ = flags.GetString("proxy")
	}
	if flags.Changed("headers") {
		headers, _ := flags.GetStringToString("headers")
		if config.HTTP.Headers == nil {
			config.HTTP.Headers = make(map[string]string)
		}
		for k, v := range headers {
			config.HTTP.Headers[k] = v
		}
	}
	if flags.Changed("profile") {
		config.Payloads.Profile, _ = flags.GetString("profile")
	}
	if flags.Changed("per-field") {
		config.Payloads.PerField, _ = flags.GetInt("per-field")
	}
	if flags.Changed("max-tests") {
		config.Payloads.MaxTests, _ = flags.GetInt("max-tests")
	}
	if flags.Changed("lab") {
		config.Payloads.IncludeLabOnly, _ = flags.GetBool("lab")
	}
	if flags.Changed("custom-payloads") {
		config.Payloads.CustomPayloads, _ = flags.GetString("custom-payloads")
	}
	if flags.Changed("format") {
		config.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("verbose") {
		config.Output.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-color") {
		noColor, _ := flags.GetBool("no-color")
		color.NoColor = noColor
	}
}

func printBanner() {
	banner := `
    ____            __           __
   / __ \___  _____/ /_  _______/ /__________
  / /_/ / _ \/ ___/ / / / / ___/ __/ ___/ __ \
 / ____/  __/ /  / / /_/ (__  ) /_/ /  / /_/ /
/_/    \___/_/  /_/\__,_/____/\__/_/   \____/
`
	color.Cyan(banner)
	color.White("  Web Vulnerability Scanner v%s", version)
	color.Yellow("  For authorized security testing only\n")
}

func printInfo(format string, args ...interface{}) {
	color.Cyan("[*] "+format, args...)
}

func printSuccess(format string, args ...interface{}) {
	color.Green("[+] "+format, args...)
}

func printWarning(format string, args ...interface{}) {
	color.Yellow("[!] "+format, args...)
}

func printError(format string, args ...interface{}) {
	color.Red("[-] "+format, args...)
}

func printProgress(current, total int) {
	color.Cyan("[*] Progress: %d/%d test cases", current, total)
}

func printFinding(f types.Finding, verbose bool) {
	var c *color.Color
	switch f.Severity {
	case types.SeverityCritical:
		c = color.New(color.FgRed, color.Bold)
	case types.SeverityHigh:
		c = color.New(color.FgRed)
	case types.SeverityMedium:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgBlue)
	}

	c.Printf("  %s [%s] %s %s", reporter.SeverityIcon(f.Severity), strings.ToUpper(f.Severity), f.Category, f.URL)
	if f.Param != "" {
		c.Printf(" (param: %s)", f.Param)
	}
	fmt.Println()

	if verbose && f.Evidence != "" {
		color.White("      evidence: %s", reporter.TruncateString(strings.ReplaceAll(f.Evidence, "\n", " "), 160))
	}
}

func printSummary(result *types.ScanResult) {
	fmt.Println()
	color.White("Scan complete in %s (%d requests)", result.Duration.Round(time.Millisecond), result.Requests)
	color.White("Findings: %d", result.Summary.TotalFindings)
	if result.Summary.CriticalFindings > 0 {
		color.Red("  Critical: %d", result.Summary.CriticalFindings)
	}
	if result.Summary.HighFindings > 0 {
		color.Red("  High:     %d", result.Summary.HighFindings)
	}
	if result.Summary.MediumFindings > 0 {
		color.Yellow("  Medium:   %d", result.Summary.MediumFindings)
	}
	if result.Summary.LowFindings > 0 {
		color.Blue("  Low:      %d", result.Summary.LowFindings)
	}
}

// consoleSink adapts the color print helpers to the EventSink interface
// used by the core components.
type consoleSink struct {
	verbose bool
}

func newConsoleSink(cmd *cobra.Command) *consoleSink {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return &consoleSink{verbose: verbose}
}

func (s *consoleSink) Infof(format string, args ...interface{}) {
	if s.verbose {
		printInfo(format, args...)
	}
}

func (s *consoleSink) Warnf(format string, args ...interface{}) {
	printWarning(format, args...)
}

func (s *consoleSink) Errorf(format string, args ...interface{}) {
	printError(format, args...)
}
