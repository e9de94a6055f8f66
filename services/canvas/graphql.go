package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// graphql posts a query to the GraphQL endpoint and unmarshals the data
// envelope into out.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	if err != nil {
		return errors.WithStack(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/graphql", bytes.NewReader(payload))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrap(err, "canvas: decoding graphql response")
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return errors.Errorf("canvas: graphql: %s", strings.Join(msgs, "; "))
	}
	return errors.Wrap(json.Unmarshal(envelope.Data, out), "canvas: decoding graphql data")
}

// DirectoryEntry is one enrolled user in the course directory.
type DirectoryEntry struct {
	Name  string
	Email string
}

const directoryQuery = `query directory($courseid: ID!) {
  course(id: $courseid) {
    enrollmentsConnection { nodes { user { name email } } }
  }
}`

// StudentDirectory lists enrolled users' names and emails.
func (c *Client) StudentDirectory(ctx context.Context, courseID int) ([]DirectoryEntry, error) {
	var data struct {
		Course struct {
			EnrollmentsConnection struct {
				Nodes []struct {
					User DirectoryEntry `json:"user"`
				} `json:"nodes"`
			} `json:"enrollmentsConnection"`
		} `json:"course"`
	}
	if err := c.graphql(ctx, directoryQuery, vars("courseid", courseID), &data); err != nil {
		return nil, err
	}
	entries := make([]DirectoryEntry, 0, len(data.Course.EnrollmentsConnection.Nodes))
	for _, n := range data.Course.EnrollmentsConnection.Nodes {
		entries = append(entries, n.User)
	}
	return entries, nil
}

// GroupGrade is one student's current score within an assignment group.
type GroupGrade struct {
	StudentName  string
	CurrentScore *float64
}

// AssignmentGroupGrades maps assignment group name to its students' scores.
type AssignmentGroupGrades struct {
	Name   string
	Grades []GroupGrade
}

const groupGradesQuery = `query groupGrades($courseid: ID!) {
  course(id: $courseid) {
    assignmentGroupsConnection {
      nodes {
        name
        gradesConnection {
          edges { node { currentScore enrollment { user { name } } } }
        }
      }
    }
  }
}`

// AssignmentGroupScores pulls every assignment group's per-student current
// scores; feeds the reference-info summary.
func (c *Client) AssignmentGroupScores(ctx context.Context, courseID int) ([]AssignmentGroupGrades, error) {
	var data struct {
		Course struct {
			AssignmentGroupsConnection struct {
				Nodes []struct {
					Name             string `json:"name"`
					GradesConnection struct {
						Edges []struct {
							Node struct {
								CurrentScore *float64 `json:"currentScore"`
								Enrollment   struct {
									User struct {
										Name string `json:"name"`
									} `json:"user"`
								} `json:"enrollment"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"gradesConnection"`
				} `json:"nodes"`
			} `json:"assignmentGroupsConnection"`
		} `json:"course"`
	}
	if err := c.graphql(ctx, groupGradesQuery, vars("courseid", courseID), &data); err != nil {
		return nil, err
	}
	groups := make([]AssignmentGroupGrades, 0, len(data.Course.AssignmentGroupsConnection.Nodes))
	for _, n := range data.Course.AssignmentGroupsConnection.Nodes {
		g := AssignmentGroupGrades{Name: n.Name}
		for _, e := range n.GradesConnection.Edges {
			g.Grades = append(g.Grades, GroupGrade{
				StudentName:  e.Node.Enrollment.User.Name,
				CurrentScore: e.Node.CurrentScore,
			})
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// GradeSnapshot is the course-wide picture the min-grade analysis starts
// from: class scores per student and the weighted assignment groups.
type GradeSnapshot struct {
	ClassScores map[string]*float64 // student name -> current class score
	Groups      []WeightedGroup
}

type WeightedGroup struct {
	ID     string
	Name   string
	Weight float64
}

const gradeSnapshotQuery = `query gradeSnapshot($courseid: ID!) {
  course(id: $courseid) {
    enrollmentsConnection {
      nodes { grades { currentScore } user { name } }
    }
    assignmentGroupsConnection {
      nodes { groupWeight name id }
    }
  }
}`

func (c *Client) CourseGradeSnapshot(ctx context.Context, courseID int) (*GradeSnapshot, error) {
	var data struct {
		Course struct {
			EnrollmentsConnection struct {
				Nodes []struct {
					Grades struct {
						CurrentScore *float64 `json:"currentScore"`
					} `json:"grades"`
					User struct {
						Name string `json:"name"`
					} `json:"user"`
				} `json:"nodes"`
			} `json:"enrollmentsConnection"`
			AssignmentGroupsConnection struct {
				Nodes []struct {
					GroupWeight float64 `json:"groupWeight"`
					Name        string  `json:"name"`
					ID          string  `json:"id"`
				} `json:"nodes"`
			} `json:"assignmentGroupsConnection"`
		} `json:"course"`
	}
	if err := c.graphql(ctx, gradeSnapshotQuery, vars("courseid", courseID), &data); err != nil {
		return nil, err
	}
	snap := &GradeSnapshot{ClassScores: make(map[string]*float64)}
	for _, n := range data.Course.EnrollmentsConnection.Nodes {
		snap.ClassScores[n.User.Name] = n.Grades.CurrentScore
	}
	for _, n := range data.Course.AssignmentGroupsConnection.Nodes {
		if n.GroupWeight == 0 {
			continue
		}
		snap.Groups = append(snap.Groups, WeightedGroup{ID: n.ID, Name: n.Name, Weight: n.GroupWeight})
	}
	return snap, nil
}

const groupAssignmentsQuery = `query groupAssignments($groupid: ID!) {
  assignmentGroup(id: $groupid) {
    assignmentsConnection { nodes { id name } }
  }
}`

// GroupAssignments lists the assignment ids of one weighted group.
func (c *Client) GroupAssignments(ctx context.Context, groupID string) ([]string, error) {
	var data struct {
		AssignmentGroup struct {
			AssignmentsConnection struct {
				Nodes []struct {
					ID string `json:"id"`
				} `json:"nodes"`
			} `json:"assignmentsConnection"`
		} `json:"assignmentGroup"`
	}
	if err := c.graphql(ctx, groupAssignmentsQuery, map[string]interface{}{"groupid": groupID}, &data); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(data.AssignmentGroup.AssignmentsConnection.Nodes))
	for _, n := range data.AssignmentGroup.AssignmentsConnection.Nodes {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

// AssignmentScores is one assignment's per-student scores.
type AssignmentScores struct {
	Name           string
	PointsPossible float64
	Scores         map[string]*float64 // student name -> score
}

const assignmentScoresQuery = `query assignmentScores($assignmentid: ID!) {
  assignment(id: $assignmentid) {
    name
    pointsPossible
    submissionsConnection { nodes { score user { name } } }
  }
}`

func (c *Client) ScoresForAssignment(ctx context.Context, assignmentID string) (*AssignmentScores, error) {
	var data struct {
		Assignment struct {
			Name                  string  `json:"name"`
			PointsPossible        float64 `json:"pointsPossible"`
			SubmissionsConnection struct {
				Nodes []struct {
					Score *float64 `json:"score"`
					User  struct {
						Name string `json:"name"`
					} `json:"user"`
				} `json:"nodes"`
			} `json:"submissionsConnection"`
		} `json:"assignment"`
	}
	if err := c.graphql(ctx, assignmentScoresQuery, map[string]interface{}{"assignmentid": assignmentID}, &data); err != nil {
		return nil, err
	}
	scores := &AssignmentScores{
		Name:           data.Assignment.Name,
		PointsPossible: data.Assignment.PointsPossible,
		Scores:         make(map[string]*float64),
	}
	for _, n := range data.Assignment.SubmissionsConnection.Nodes {
		scores.Scores[n.User.Name] = n.Score
	}
	return scores, nil
}

// SubmissionFiles is one student's submitted attachments and comments.
type SubmissionFiles struct {
	UserName    string
	Attachments []RemoteFile
	Comments    []SubmissionComment
}

type RemoteFile struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName"`
}

type SubmissionComment struct {
	Comment     string       `json:"comment"`
	Attachments []RemoteFile `json:"attachments"`
}

const submissionFilesQuery = `query submissions($assignmentid: ID!) {
  assignment(id: $assignmentid) {
    submissionsConnection {
      nodes {
        attachments { url displayName }
        user { name }
        commentsConnection { nodes { comment attachments { url displayName } } }
      }
    }
  }
}`

// SubmissionAttachments lists every submission's files and comments for
// bulk download.
func (c *Client) SubmissionAttachments(ctx context.Context, assignmentID int) ([]SubmissionFiles, error) {
	var data struct {
		Assignment struct {
			SubmissionsConnection struct {
				Nodes []struct {
					Attachments []RemoteFile `json:"attachments"`
					User        struct {
						Name string `json:"name"`
					} `json:"user"`
					CommentsConnection struct {
						Nodes []SubmissionComment `json:"nodes"`
					} `json:"commentsConnection"`
				} `json:"nodes"`
			} `json:"submissionsConnection"`
		} `json:"assignment"`
	}
	if err := c.graphql(ctx, submissionFilesQuery, vars("assignmentid", assignmentID), &data); err != nil {
		return nil, err
	}
	subs := make([]SubmissionFiles, 0, len(data.Assignment.SubmissionsConnection.Nodes))
	for _, n := range data.Assignment.SubmissionsConnection.Nodes {
		subs = append(subs, SubmissionFiles{
			UserName:    n.User.Name,
			Attachments: n.Attachments,
			Comments:    n.CommentsConnection.Nodes,
		})
	}
	return subs, nil
}

func vars(key string, id int) map[string]interface{} {
	return map[string]interface{}{key: strconv.Itoa(id)}
}

// Download streams an attachment url (already signed; no auth header) to w.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "canvas: fetching %s", rawURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("canvas: fetching %s: %s", rawURL, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return errors.Wrapf(err, "canvas: reading %s", rawURL)
}
