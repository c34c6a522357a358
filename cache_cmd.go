package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the synthesized-audio cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSpeaker(cmd, nil)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		stats, ok := s.CacheStats()
		if !ok {
			fmt.Println("Caching is disabled. Enable it with --cache or cache.enabled in the config file.")
			return nil
		}

		fmt.Printf("Memory entries: %d\n", stats.MemoryEntries)
		fmt.Printf("Disk usage:     %s of %s\n", humanize.IBytes(uint64(stats.DiskBytes)), humanize.IBytes(uint64(stats.DiskCapacity)))
		fmt.Printf("Hits:           %d memory, %d disk\n", stats.MemoryHits, stats.DiskHits)
		fmt.Printf("Misses:         %d\n", stats.Misses)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached audio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSpeaker(cmd, nil)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		if err := s.ClearCache(); err != nil {
			return fmt.Errorf("unable to clear cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
