package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

var indexScope string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Check and repair scope indexes",
	Long: `Each scope's index is a pair of append-only files: the vectors and the
chunk id mapping. An interrupted ingest can leave the mapping longer than the
vector file. verify reports such scopes and repair truncates the mapping back
to the vector count.`,
}

var indexVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify one scope or every scope",
	Args:  cobra.NoArgs,
	RunE:  runIndexVerify,
}

var indexRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair an inconsistent scope",
	Args:  cobra.NoArgs,
	RunE:  runIndexRepair,
}

func init() {
	indexCmd.PersistentFlags().StringVarP(&indexScope, "scope", "s", "", "course or group, e.g. course:12")
	indexCmd.AddCommand(indexVerifyCmd)
	indexCmd.AddCommand(indexRepairCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexVerify(cmd *cobra.Command, _ []string) error {
	if indexAdminService == nil {
		return errors.New("index admin service not configured")
	}

	if indexScope != "" {
		scope, err := parseScope(indexScope)
		if err != nil {
			return err
		}
		info, err := indexAdminService.Verify(cmd.Context(), scope)
		if err != nil {
			return commandError("verifying "+scope.String(), err)
		}
		printIndexInfo(cmd, info)
		return nil
	}

	infos, failures, err := indexAdminService.VerifyAll(cmd.Context())
	if err != nil {
		return commandError("verifying indexes", err)
	}

	if len(infos) == 0 && len(failures) == 0 {
		cmd.Println("No indexes found.")
		return nil
	}

	for i := range infos {
		printIndexInfo(cmd, infos[i])
	}

	if len(failures) == 0 {
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	keys := make([]string, 0, len(failures))
	for key := range failures {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cmd.Printf("%s %s: %v\n", p.Heading("FAIL"), key, failures[key])
	}
	return fmt.Errorf("%d of %d indexes inconsistent, run 'index repair --scope'",
		len(failures), len(infos)+len(failures))
}

func runIndexRepair(cmd *cobra.Command, _ []string) error {
	if indexAdminService == nil {
		return errors.New("index admin service not configured")
	}

	scope, err := parseScope(indexScope)
	if err != nil {
		return err
	}

	report, err := indexAdminService.Repair(cmd.Context(), scope)
	if err != nil {
		return commandError("repairing "+scope.String(), err)
	}

	if report.Truncated == 0 {
		cmd.Printf("%s is consistent (%d vectors)\n", scope, report.VectorCount)
		return nil
	}
	cmd.Printf("Repaired %s: mapping %d -> %d ids (%d dropped)\n",
		scope, report.MappingBefore, report.VectorCount, report.Truncated)
	return nil
}

func printIndexInfo(cmd *cobra.Command, info domain.IndexInfo) {
	cmd.Printf("OK   %s: %d vectors, dimension %d\n", info.Scope, info.Count, info.Dimension)
}
