package internal

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestRenderPages(t *testing.T) {
	views, err := NewRenderer()
	require.NoError(t, err)

	tests := []struct {
		golden   string
		template string
		page     any
	}{
		{"search_empty", IndexTemplate, SearchPage{}},
		{"search_results", IndexTemplate, SearchPage{
			ShowResult:    true,
			Keyword:       "ali",
			Persons:       []Person{{ID: 1, Name: "Alice", Number: "99999"}},
			DeveloperName: "Devenes",
		}},
		{"search_no_result", IndexTemplate, SearchPage{
			ShowResult: true,
			Keyword:    "zed",
			Persons:    []Person{NoResultPerson},
		}},
		{"add_invalid", AddUpdateTemplate, EditPage{
			ActionName: ActionSave,
			FormAction: "/add",
			NotValid:   true,
			Message:    "Invalid input: " + MsgNameEmpty,
		}},
		{"update_result", AddUpdateTemplate, EditPage{
			ActionName:    ActionUpdate,
			FormAction:    "/update",
			ShowResult:    true,
			Result:        "Phone record of Alice is updated successfully",
			DeveloperName: "Devenes",
		}},
		{"delete_result", DeleteTemplate, DeletePage{
			ShowResult: true,
			Result:     "Phone record of Alice is deleted from the phonebook successfully",
		}},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, views.Render(&buf, tt.template, tt.page))
			g.Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestRenderEscapesUserInput(t *testing.T) {
	views, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, views.Render(&buf, IndexTemplate, SearchPage{
		ShowResult: true,
		Keyword:    `"><script>`,
		Persons:    []Person{{Name: "<B>", Number: "1"}},
	}))
	require.NotContains(t, buf.String(), "<script>")
	require.Contains(t, buf.String(), "<td>&lt;B&gt;</td>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	views, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.Error(t, views.Render(&buf, "missing.html", nil))
	require.Zero(t, buf.Len())
}
