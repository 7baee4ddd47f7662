package actions

import (
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// CreateTeam validates the form input and creates the team.
func (a *Actions) CreateTeam(in TeamInput) error {
	if errs := in.Validate(); errs != nil {
		return errs
	}

	return a.run("create team", "Team created", func() ([]store.Msg, error) {
		t, err := a.gw.CreateTeam(in.Name, in.LeadID, in.ProjectID, in.Deadline)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.AddTeam{Team: *t}}, nil
	})
}

// UpdateTeam rewrites a team's fields and replaces it in the store.
func (a *Actions) UpdateTeam(t models.Team) error {
	return a.run("update team", "Team updated", func() ([]store.Msg, error) {
		updated, err := a.gw.UpdateTeam(t.ID, t.Name, t.LeadID, t.ProjectID, t.Progress, t.Deadline)
		if err != nil {
			return nil, err
		}
		return []store.Msg{store.UpdateTeam{Team: *updated}}, nil
	})
}

// DeleteTeam removes a team. Members of the team become unassigned.
func (a *Actions) DeleteTeam(id int64) error {
	return a.run("delete team", "Team deleted", func() ([]store.Msg, error) {
		if err := a.gw.DeleteTeam(id); err != nil {
			return nil, err
		}
		return []store.Msg{store.DeleteTeam{ID: id}}, nil
	})
}

// AddTeamMember assigns a member to a team. The users table change
// notification refreshes both the members and team rosters.
func (a *Actions) AddTeamMember(teamID, memberID int64) error {
	return a.run("add team member", "Member added", func() ([]store.Msg, error) {
		id := teamID
		if err := a.gw.SetMemberTeam(memberID, &id); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// RemoveTeamMember unassigns a member from their team.
func (a *Actions) RemoveTeamMember(memberID int64) error {
	return a.run("remove team member", "Member removed", func() ([]store.Msg, error) {
		if err := a.gw.SetMemberTeam(memberID, nil); err != nil {
			return nil, err
		}
		return nil, nil
	})
}
