package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/vislam/haloc/pkg/cli"
)

// nodeRecord mirrors haloc's unexported per-node record shape closely
// enough to read back what a FileFeatureStore wrote.
type nodeRecord struct {
	Name        string      `yaml:"name"`
	Keypoints   []struct{}  `yaml:"keypoints"`
	Descriptors [][]float64 `yaml:"descriptors"`
	Points3D    []struct{}  `yaml:"points3d"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <scratch-dir>",
	Short: "Summarize the node records left by a FileFeatureStore run",
	Long: `Reads every node-*.yaml file in a FileFeatureStore scratch directory
and prints a table of file name (which carries the node index), name,
keypoint count, descriptor dimensionality, whether the node carries
3-D points (stereo), and on-disk size.

This is a read-only debugging aid; it does not talk to a running
engine (the engine owns its scratch store exclusively while active).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("halocctl: read scratch dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	styles := cli.NewStyles(cli.DefaultTheme)
	fmt.Println(styles.Title.Render(fmt.Sprintf("haloc scratch store: %s", dir)))
	if len(names) == 0 {
		fmt.Println(styles.Help.Render("no node records found"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tNAME\tKEYPOINTS\tDESC_DIM\tSTEREO\tSIZE")
	for _, name := range names {
		path := filepath.Join(dir, name)
		rec, err := readNodeRecord(path)
		if err != nil {
			fmt.Fprintf(w, "%s\t<unreadable: %v>\t\t\t\t\n", name, err)
			continue
		}
		dim := 0
		if len(rec.Descriptors) > 0 {
			dim = len(rec.Descriptors[0])
		}
		stereo := "no"
		if len(rec.Points3D) > 0 {
			stereo = "yes"
		}
		size := "?"
		if info, err := os.Stat(path); err == nil {
			size = cli.FormatBytes(info.Size())
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n", name, rec.Name, len(rec.Keypoints), dim, stereo, size)
	}
	return w.Flush()
}

func readNodeRecord(path string) (nodeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nodeRecord{}, err
	}
	var rec nodeRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nodeRecord{}, err
	}
	return rec, nil
}
