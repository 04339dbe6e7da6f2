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

package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-master-data-service/internal/candidates/model"
	"github.com/wso2/identity-master-data-service/internal/engine"
	entitymodel "github.com/wso2/identity-master-data-service/internal/entity/model"
	"github.com/wso2/identity-master-data-service/internal/system/config"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
	"github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

// fakeCandidateStore is an in-memory MergeCandidateStoreInterface with
// per-candidate failure injection for the compare-and-swap path.
type fakeCandidateStore struct {
	candidates    []*model.MergeCandidate
	auditLogs     []model.AuditLog
	failUpdateFor map[string]bool
	createErr     error
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{failUpdateFor: map[string]bool{}}
}

func (fs *fakeCandidateStore) CreateBatch(ctx context.Context, candidates []model.MergeCandidate,
	auditLogs []model.AuditLog) error {
	if fs.createErr != nil {
		return fs.createErr
	}
	for i := range candidates {
		candidate := candidates[i]
		fs.candidates = append(fs.candidates, &candidate)
	}
	fs.auditLogs = append(fs.auditLogs, auditLogs...)
	return nil
}

func (fs *fakeCandidateStore) GetMergeCandidate(candidateId string) (*model.MergeCandidate, error) {
	for _, candidate := range fs.candidates {
		if candidate.CandidateId == candidateId {
			copied := *candidate
			return &copied, nil
		}
	}
	return nil, nil
}

func (fs *fakeCandidateStore) GetMergeCandidatesByStatus(status string) ([]model.MergeCandidate, error) {
	matched := []model.MergeCandidate{}
	for _, candidate := range fs.candidates {
		if candidate.Status == status {
			matched = append(matched, *candidate)
		}
	}
	return matched, nil
}

func (fs *fakeCandidateStore) GetAllMergeCandidates() ([]model.MergeCandidate, error) {
	all := []model.MergeCandidate{}
	for _, candidate := range fs.candidates {
		all = append(all, *candidate)
	}
	return all, nil
}

func (fs *fakeCandidateStore) UpdateStatusIfPending(candidateId, status, comment string,
	updatedAt int64) (int64, error) {
	if fs.failUpdateFor[candidateId] {
		return 0, fmt.Errorf("injected store failure for %s", candidateId)
	}
	for _, candidate := range fs.candidates {
		if candidate.CandidateId == candidateId && candidate.Status == model.StatusPendingReview {
			candidate.Status = status
			candidate.ReviewComment = comment
			candidate.UpdatedAt = updatedAt
			return 1, nil
		}
	}
	return 0, nil
}

func (fs *fakeCandidateStore) GetAuditLogs(candidateId string) ([]model.AuditLog, error) {
	matched := []model.AuditLog{}
	for _, auditLog := range fs.auditLogs {
		if auditLog.CandidateId == candidateId {
			matched = append(matched, auditLog)
		}
	}
	return matched, nil
}

type fakeResolver struct {
	ruleBodies []string
	err        error
	calls      int
}

func (fr *fakeResolver) ResolveEffectiveRules(companyId, domain string) ([]string, error) {
	fr.calls++
	return fr.ruleBodies, fr.err
}

func newService(fs *fakeCandidateStore, fr *fakeResolver) *MergeCandidateService {
	return &MergeCandidateService{
		Store:    fs,
		Resolver: fr,
		Engine:   engine.NewRegistryEngine(),
	}
}

func acmeEntities() []entitymodel.Entity {
	return []entitymodel.Entity{
		{Id: "E1", Type: "Organization", Name: "Acme Corp", Phone: "555-123-4567"},
		{Id: "E2", Type: "Organization", Name: "ACME CORP", Phone: "555-123-4567"},
	}
}

func TestProcessEntityBatch_EmptyBatchIsNoOp(t *testing.T) {

	fs := newFakeCandidateStore()
	fr := &fakeResolver{ruleBodies: []string{"builtin"}}
	svc := newService(fs, fr)

	err := svc.ProcessEntityBatch(context.Background(), "ACME", "lifescience", nil)
	require.NoError(t, err)
	assert.Zero(t, fr.calls)
	assert.Empty(t, fs.candidates)
}

func TestProcessEntityBatch_EmptyRuleSetIsNoOp(t *testing.T) {

	fs := newFakeCandidateStore()
	svc := newService(fs, &fakeResolver{ruleBodies: []string{}})

	err := svc.ProcessEntityBatch(context.Background(), "ACME", "lifescience", acmeEntities())
	require.NoError(t, err)
	assert.Empty(t, fs.candidates)
}

func TestProcessEntityBatch_ResolverFailureSurfaces(t *testing.T) {

	fs := newFakeCandidateStore()
	resolveErr := errors.NewServerError(errors.RESOLVE_EFFECTIVE_RULES, fmt.Errorf("db down"))
	svc := newService(fs, &fakeResolver{err: resolveErr})

	err := svc.ProcessEntityBatch(context.Background(), "ACME", "lifescience", acmeEntities())
	require.Error(t, err)
	assert.ErrorIs(t, err, resolveErr)
	assert.Empty(t, fs.candidates)
}

func TestProcessEntityBatch_EveryCandidateHasItsAuditRow(t *testing.T) {

	fs := newFakeCandidateStore()
	svc := newService(fs, &fakeResolver{ruleBodies: []string{"builtin"}})

	err := svc.ProcessEntityBatch(context.Background(), "ACME", "lifescience", acmeEntities())
	require.NoError(t, err)

	// Name and phone both match, so two candidates with one audit row each.
	require.Len(t, fs.candidates, 2)
	require.Len(t, fs.auditLogs, 2)

	auditByCandidate := map[string]model.AuditLog{}
	for _, auditLog := range fs.auditLogs {
		auditByCandidate[auditLog.CandidateId] = auditLog
	}
	for _, candidate := range fs.candidates {
		assert.Equal(t, model.StatusPendingReview, candidate.Status)
		assert.NotEmpty(t, candidate.Entity1JSON)
		assert.NotEmpty(t, candidate.ProposedMergedEntityJSON)

		auditLog, ok := auditByCandidate[candidate.CandidateId]
		require.True(t, ok, "candidate %s has no audit row", candidate.CandidateId)
		assert.True(t, auditLog.BotDecisionToMerge)
		assert.Equal(t, "E1", auditLog.Entity1Id)
		assert.Equal(t, "E2", auditLog.Entity2Id)
		assert.Equal(t, candidate.Reasoning, auditLog.RuleDetails)
	}
}

func TestProcessEntityBatch_CancelledContextSkipsPersistence(t *testing.T) {

	fs := newFakeCandidateStore()
	svc := newService(fs, &fakeResolver{ruleBodies: []string{"builtin"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.ProcessEntityBatch(ctx, "ACME", "lifescience", acmeEntities())
	require.Error(t, err)
	assert.Empty(t, fs.candidates)
}

func pendingCandidate(id string) *model.MergeCandidate {
	return &model.MergeCandidate{
		CandidateId: id,
		Entity1JSON: `{"id":"a"}`,
		Entity2JSON: `{"id":"b"}`,
		Status:      model.StatusPendingReview,
	}
}

func TestReviewMergeCandidate_InvalidTargetStatus(t *testing.T) {

	svc := newService(newFakeCandidateStore(), &fakeResolver{})

	_, err := svc.ReviewMergeCandidate("c-1", model.StatusPendingReview, "")
	require.Error(t, err)

	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
	assert.Equal(t, errors.INVALID_TARGET_STATUS.Code, clientErr.Code)
}

func TestReviewMergeCandidate_NotFound(t *testing.T) {

	fs := newFakeCandidateStore()
	svc := newService(fs, &fakeResolver{})

	_, err := svc.ReviewMergeCandidate("99999", model.StatusApproved, "ok")
	require.Error(t, err)

	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
	assert.Empty(t, fs.candidates)
}

func TestReviewMergeCandidate_ApproveThenRejectFails(t *testing.T) {

	fs := newFakeCandidateStore()
	fs.candidates = append(fs.candidates, pendingCandidate("c-1"))
	svc := newService(fs, &fakeResolver{})

	updated, err := svc.ReviewMergeCandidate("c-1", model.StatusApproved, "looks right")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
	assert.Equal(t, "looks right", updated.ReviewComment)

	_, err = svc.ReviewMergeCandidate("c-1", model.StatusRejected, "second opinion")
	require.Error(t, err)

	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusConflict, clientErr.StatusCode)
	assert.Equal(t, errors.INVALID_STATUS_TRANSITION.Code, clientErr.Code)

	// The terminal state survives the failed second review.
	current, err := svc.GetMergeCandidate("c-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, current.Status)
	assert.Equal(t, "looks right", current.ReviewComment)
}

func TestApproveAllPending_PartialFailureReportsCounts(t *testing.T) {

	fs := newFakeCandidateStore()
	fs.candidates = append(fs.candidates, pendingCandidate("c-1"), pendingCandidate("c-2"),
		pendingCandidate("c-3"))
	fs.failUpdateFor["c-2"] = true
	svc := newService(fs, &fakeResolver{})

	result, err := svc.ApproveAllPending("bulk")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"c-2"}, result.FailedIds)

	first, _ := svc.GetMergeCandidate("c-1")
	second, _ := svc.GetMergeCandidate("c-2")
	third, _ := svc.GetMergeCandidate("c-3")
	assert.Equal(t, model.StatusApproved, first.Status)
	assert.Equal(t, model.StatusPendingReview, second.Status)
	assert.Equal(t, model.StatusApproved, third.Status)
}

func TestGetMergeCandidatesByStatus_UnknownStatusRejected(t *testing.T) {

	svc := newService(newFakeCandidateStore(), &fakeResolver{})

	_, err := svc.GetMergeCandidatesByStatus("ARCHIVED")
	require.Error(t, err)

	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}

func TestGetAuditTrail_NotFound(t *testing.T) {

	svc := newService(newFakeCandidateStore(), &fakeResolver{})

	_, err := svc.GetAuditTrail("missing")
	require.Error(t, err)

	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
}

func TestGetMergeCandidateService_SharesOneEngineAcrossCalls(t *testing.T) {

	config.OverrideMDSRuntime(config.Config{
		RuleEngine: config.RuleEngineConfig{
			Type:            constants.EngineTypeDeclarative,
			CompileCacheTTL: 600,
		},
	})

	first := GetMergeCandidateService()
	second := GetMergeCandidateService()
	assert.Same(t, first, second)

	firstService, ok := first.(*MergeCandidateService)
	require.True(t, ok)
	secondService, ok := second.(*MergeCandidateService)
	require.True(t, ok)
	assert.Same(t, firstService.Engine, secondService.Engine)
}
