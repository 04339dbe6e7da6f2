/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	candidatemodel "github.com/wso2/identity-master-data-service/internal/candidates/model"
	candidateservice "github.com/wso2/identity-master-data-service/internal/candidates/service"
	"github.com/wso2/identity-master-data-service/internal/engine"
	entitymodel "github.com/wso2/identity-master-data-service/internal/entity/model"
	rulesmodel "github.com/wso2/identity-master-data-service/internal/rules/model"
	rulesservice "github.com/wso2/identity-master-data-service/internal/rules/service"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
)

func TestMergeCandidateLifecycle(t *testing.T) {
	ctx := context.Background()
	ruleSvc := rulesservice.GetMergeRuleService()
	candidateSvc := candidateservice.GetMergeCandidateService()

	// Seed the built-in company name rule for the manufacturing domain so
	// the batch resolves to a non-empty rule set.
	seeded, err := ruleSvc.AddGlobalRule(rulesmodel.GlobalMergeRuleAPIRequest{
		Domain:   "manufacturing",
		RuleName: "ExactCompanyNameMatch",
		RuleBody: engine.DefaultCompanyNameRuleBody,
		Priority: 40,
		IsActive: true,
	})
	require.NoError(t, err)
	defer func() { _ = ruleSvc.DeleteGlobalRule(seeded.RuleId) }()

	entities := []entitymodel.Entity{
		{
			Id:           "ent-1",
			Type:         constants.EntityTypeOrganization,
			Name:         "Globex",
			Address:      "450 Industrial Parkway",
			Email:        "sales@globex.com",
			Phone:        "+1 (555) 010-2000",
			SourceSystem: "crm",
		},
		{
			Id:           "ent-2",
			Type:         constants.EntityTypeOrganization,
			Name:         "globex",
			Address:      "PO Box 9",
			Email:        "ops@globex.io",
			Phone:        "15550102000",
			SourceSystem: "erp",
		},
		{
			Id:           "ent-3",
			Type:         constants.EntityTypeOrganization,
			Name:         "Initech",
			Address:      "12 Commerce Street",
			Email:        "info@initech.com",
			Phone:        "+1 555 777 8888",
			SourceSystem: "crm",
		},
	}

	err = candidateSvc.ProcessEntityBatch(ctx, "globex-holdings", "manufacturing", entities)
	require.NoError(t, err)

	// ent-1 and ent-2 match on company name and on phone number.
	pending, err := candidateSvc.GetMergeCandidatesByStatus(candidatemodel.StatusPendingReview)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	for _, candidate := range pending {
		assert.Equal(t, candidatemodel.StatusPendingReview, candidate.Status)
		assert.NotEmpty(t, candidate.Reasoning)
		assert.NotEmpty(t, candidate.ProposedMergedEntityJSON)
	}

	// Each candidate carries exactly one audit row recording the bot decision.
	auditLogs, err := candidateSvc.GetAuditTrail(pending[0].CandidateId)
	require.NoError(t, err)
	require.Len(t, auditLogs, 1)
	assert.Equal(t, "ent-1", auditLogs[0].Entity1Id)
	assert.Equal(t, "ent-2", auditLogs[0].Entity2Id)
	assert.True(t, auditLogs[0].BotDecisionToMerge)
	assert.Equal(t, pending[0].Reasoning, auditLogs[0].RuleDetails)

	// Approve the first candidate.
	reviewed, err := candidateSvc.ReviewMergeCandidate(pending[0].CandidateId,
		candidatemodel.StatusApproved, "confirmed duplicate")
	require.NoError(t, err)
	assert.Equal(t, candidatemodel.StatusApproved, reviewed.Status)
	assert.Equal(t, "confirmed duplicate", reviewed.ReviewComment)

	// A second decision on the same candidate is rejected.
	_, err = candidateSvc.ReviewMergeCandidate(pending[0].CandidateId,
		candidatemodel.StatusRejected, "changed my mind")
	require.Error(t, err)
	var clientError *errors2.ClientError
	require.True(t, errors.As(err, &clientError))
	assert.Equal(t, errors2.INVALID_STATUS_TRANSITION.Code, clientError.Code)

	// Bulk approval picks up the remaining pending candidate.
	result, err := candidateSvc.ApproveAllPending("bulk approved")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Failed)

	approved, err := candidateSvc.GetMergeCandidatesByStatus(candidatemodel.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 2)
}

func TestMergeCandidate_ReviewMissingCandidate(t *testing.T) {
	candidateSvc := candidateservice.GetMergeCandidateService()

	_, err := candidateSvc.ReviewMergeCandidate("no-such-candidate",
		candidatemodel.StatusApproved, "")
	require.Error(t, err)
	var clientError *errors2.ClientError
	require.True(t, errors.As(err, &clientError))
	assert.Equal(t, errors2.MERGE_CANDIDATE_NOT_FOUND.Code, clientError.Code)
}
