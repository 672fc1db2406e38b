package main

import (
	"fmt"

	"debatekeeper/internal/store"

	"github.com/spf13/cobra"
)

// savedCmd manages saved timer states
var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved timer states",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved timer states",
	Args:  cobra.NoArgs,
	RunE:  runSavedList,
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved timer state",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedDelete,
}

func init() {
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedDeleteCmd)
}

func runSavedList(cmd *cobra.Command, args []string) error {
	db, err := store.NewSavedStateStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	states, err := db.List()
	if err != nil {
		return err
	}

	if len(states) == 0 {
		fmt.Println("no saved states")
		return nil
	}
	for _, s := range states {
		fmt.Printf("%s  %-20s  updated %s\n",
			s.ID, s.Name, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runSavedDelete(cmd *cobra.Command, args []string) error {
	db, err := store.NewSavedStateStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}
