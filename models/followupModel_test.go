package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicableRuleExactCategory(t *testing.T) {
	rule := ApplicableRule(7, FollowUpGentle)
	require.NotNil(t, rule)
	require.Equal(t, FollowUpGentle, rule.Category)
	require.Equal(t, ActionSendReminder, rule.Action)

	// Thresholds are inclusive; an older invoice still matches its
	// requested category.
	rule = ApplicableRule(35, FollowUpFirm)
	require.NotNil(t, rule)
	require.Equal(t, FollowUpFirm, rule.Category)
	require.Equal(t, 30, rule.DaysAfterDue)

	rule = ApplicableRule(90, FollowUpCollections)
	require.NotNil(t, rule)
	require.Equal(t, ActionSendToCollections, rule.Action)
}

func TestApplicableRuleFallsBackAcrossCategories(t *testing.T) {
	// Collections requested at 35 days: its own threshold is not reached,
	// so the closest lower threshold wins regardless of category.
	rule := ApplicableRule(35, FollowUpCollections)
	require.NotNil(t, rule)
	require.Equal(t, FollowUpFirm, rule.Category)

	rule = ApplicableRule(10, FollowUpFinalNotice)
	require.NotNil(t, rule)
	require.Equal(t, FollowUpGentle, rule.Category)
}

func TestApplicableRuleNoneReached(t *testing.T) {
	require.Nil(t, ApplicableRule(0, FollowUpGentle))
	require.Nil(t, ApplicableRule(6, FollowUpGentle))
	require.Nil(t, ApplicableRule(3, FollowUpCollections))
}

func TestFollowUpKey(t *testing.T) {
	require.Equal(t, "BF-INV-1001-gentle", FollowUpKey("INV-1001", FollowUpGentle))
}
