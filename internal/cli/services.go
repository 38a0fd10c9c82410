package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/services/auditmanager"
	"github.com/shaiso/Cloudlet/internal/services/kms"
	"github.com/shaiso/Cloudlet/internal/services/mediapipelines"
	"github.com/shaiso/Cloudlet/internal/services/wisdom"
)

// Commands — все операции, доступные из CLI.
func Commands() []Command {
	return []Command{
		Op(auditmanager.CreateControl),
		Op(auditmanager.GetControl),
		Op(auditmanager.ListControls),
		Op(auditmanager.UpdateControl),
		Op(auditmanager.DeleteControl),
		Op(auditmanager.CreateAssessment),
		Op(auditmanager.GetAssessment),
		Op(auditmanager.ListAssessments),
		Op(auditmanager.UpdateAssessment),
		Op(auditmanager.DeleteAssessment),

		Op(mediapipelines.CreateMediaPipeline),
		Op(mediapipelines.GetMediaPipeline),
		Op(mediapipelines.ListMediaPipelines),
		Op(mediapipelines.DeleteMediaPipeline),

		Op(wisdom.CreateKnowledgeBase),
		Op(wisdom.GetKnowledgeBase),
		Op(wisdom.ListKnowledgeBases),
		Op(wisdom.UpdateKnowledgeBase),
		Op(wisdom.DeleteKnowledgeBase),

		Op(kms.CreateKey),
		Op(kms.DescribeKey),
		Op(kms.ListKeys),
		Op(kms.UpdateKey),
		Op(kms.DeleteKey),
	}
}

// AddCommands строит дерево "сервис → тип ресурса → действие" под root.
func AddCommands(root *cobra.Command, env *Env, cmds []Command) error {
	groups := map[string]*cobra.Command{}

	for _, c := range cmds {
		path := c.Path()
		if len(path) < 2 {
			return fmt.Errorf("command %q: expected at least service and action", path)
		}

		parent := root
		for i := range path[:len(path)-1] {
			key := fmt.Sprint(path[:i+1])
			group, ok := groups[key]
			if !ok {
				group = &cobra.Command{Use: path[i], Short: groupShort(path[:i+1])}
				parent.AddCommand(group)
				groups[key] = group
			}
			parent = group
		}

		leaf, err := c.Build(env)
		if err != nil {
			return err
		}
		parent.AddCommand(leaf)
	}
	return nil
}

// groupShort — описание группы: заголовок сервиса из каталога или тип ресурса.
func groupShort(path []string) string {
	if len(path) == 1 {
		if svc, err := catalog.Default().Lookup(path[0]); err == nil {
			return "Manage " + svc.Title
		}
		return "Manage " + path[0]
	}
	return "Manage " + strcase.ToDelimited(path[len(path)-1], ' ') + " resources"
}

// NewServicesCmd создаёт команду, печатающую каталог сервисов.
func NewServicesCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List available services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			type serviceInfo struct {
				Name    string   `json:"name"`
				Title   string   `json:"title"`
				Kinds   []string `json:"kinds"`
				Actions int      `json:"actions"`
			}

			services := catalog.Default().Services()
			infos := make([]serviceInfo, len(services))
			rows := make([][]string, len(services))
			for i, svc := range services {
				info := serviceInfo{Name: svc.Name, Title: svc.Title}
				for _, kind := range svc.Kinds {
					info.Kinds = append(info.Kinds, kind.Name)
				}
				info.Actions = len(svc.Actions())
				infos[i] = info
				rows[i] = []string{svc.Name, svc.Title, strings.Join(info.Kinds, ", "), strconv.Itoa(info.Actions)}
			}

			out.Print([]string{"NAME", "TITLE", "KINDS", "ACTIONS"}, rows, infos)
			return nil
		},
	}
}
