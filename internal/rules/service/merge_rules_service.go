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
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/identity-master-data-service/internal/rules/model"
	"github.com/wso2/identity-master-data-service/internal/rules/store"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
)

type MergeRuleServiceInterface interface {
	AddGlobalRule(request model.GlobalMergeRuleAPIRequest) (*model.GlobalMergeRule, error)
	GetGlobalRule(ruleId string) (*model.GlobalMergeRule, error)
	GetGlobalRulesByDomain(domain string) ([]model.GlobalMergeRule, error)
	PatchGlobalRule(ruleId string, update model.MergeRuleUpdateRequest) (*model.GlobalMergeRule, error)
	DeleteGlobalRule(ruleId string) error

	AddCompanyRule(request model.CompanyMergeRuleAPIRequest) (*model.CompanyMergeRule, error)
	GetCompanyRule(ruleId string) (*model.CompanyMergeRule, error)
	GetCompanyRulesByCompany(companyId string) ([]model.CompanyMergeRule, error)
	PatchCompanyRule(ruleId string, update model.MergeRuleUpdateRequest) (*model.CompanyMergeRule, error)
	DeleteCompanyRule(ruleId string) error

	ResolveEffectiveRules(companyId, domain string) ([]string, error)
	SeedDefaultGlobalRules(domains []string) error
}

// MergeRuleService is the default implementation of the MergeRuleServiceInterface.
type MergeRuleService struct {
	GlobalStore  store.GlobalRuleStoreInterface
	CompanyStore store.CompanyRuleStoreInterface
}

// GetMergeRuleService creates a new instance of MergeRuleService.
func GetMergeRuleService() MergeRuleServiceInterface {

	return &MergeRuleService{
		GlobalStore:  store.GetGlobalRuleStore(),
		CompanyStore: store.GetCompanyRuleStore(),
	}
}

// AddGlobalRule adds a new global merge rule after enforcing name uniqueness
// within the rule's domain.
func (mrs *MergeRuleService) AddGlobalRule(request model.GlobalMergeRuleAPIRequest) (*model.GlobalMergeRule, error) {

	existingRule, err := mrs.GlobalStore.GetGlobalRuleByName(request.Domain, request.RuleName)
	if err != nil {
		return nil, err
	}
	if existingRule != nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:    errors2.DUPLICATE_RULE_NAME.Code,
			Message: errors2.DUPLICATE_RULE_NAME.Message,
			Description: fmt.Sprintf("A global merge rule named %s already exists in domain %s", request.RuleName,
				request.Domain),
		}, http.StatusConflict)
	}

	now := time.Now().UTC().Unix()
	rule := model.GlobalMergeRule{
		RuleId:      uuid.New().String(),
		Domain:      request.Domain,
		RuleName:    request.RuleName,
		Description: request.Description,
		RuleBody:    request.RuleBody,
		Priority:    request.Priority,
		IsActive:    request.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := mrs.GlobalStore.AddGlobalRule(rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetGlobalRule fetches a global merge rule by its id.
func (mrs *MergeRuleService) GetGlobalRule(ruleId string) (*model.GlobalMergeRule, error) {

	rule, err := mrs.GlobalStore.GetGlobalRule(ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFoundError(ruleId)
	}
	return rule, nil
}

// GetGlobalRulesByDomain fetches all global merge rules for a domain.
func (mrs *MergeRuleService) GetGlobalRulesByDomain(domain string) ([]model.GlobalMergeRule, error) {

	return mrs.GlobalStore.GetGlobalRulesByDomain(domain)
}

// PatchGlobalRule applies a partial update on a global merge rule.
func (mrs *MergeRuleService) PatchGlobalRule(ruleId string, update model.MergeRuleUpdateRequest) (
	*model.GlobalMergeRule, error) {

	if update.OverridesGlobal != nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Field 'overrides_global' is not applicable to global merge rules.",
		}, http.StatusBadRequest)
	}

	rule, err := mrs.GlobalStore.GetGlobalRule(ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFoundError(ruleId)
	}

	if update.Description != nil {
		rule.Description = *update.Description
	}
	if update.RuleBody != nil {
		rule.RuleBody = *update.RuleBody
	}
	if update.Priority != nil {
		rule.Priority = *update.Priority
	}
	if update.IsActive != nil {
		rule.IsActive = *update.IsActive
	}
	rule.UpdatedAt = time.Now().UTC().Unix()

	if err := mrs.GlobalStore.UpdateGlobalRule(*rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteGlobalRule removes a global merge rule.
func (mrs *MergeRuleService) DeleteGlobalRule(ruleId string) error {

	rule, err := mrs.GlobalStore.GetGlobalRule(ruleId)
	if err != nil {
		return err
	}
	if rule == nil {
		return ruleNotFoundError(ruleId)
	}
	return mrs.GlobalStore.DeleteGlobalRule(ruleId)
}

// AddCompanyRule adds a new company merge rule after enforcing name
// uniqueness within the company.
func (mrs *MergeRuleService) AddCompanyRule(request model.CompanyMergeRuleAPIRequest) (*model.CompanyMergeRule, error) {

	existingRule, err := mrs.CompanyStore.GetCompanyRuleByName(request.CompanyId, request.RuleName)
	if err != nil {
		return nil, err
	}
	if existingRule != nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:    errors2.DUPLICATE_RULE_NAME.Code,
			Message: errors2.DUPLICATE_RULE_NAME.Message,
			Description: fmt.Sprintf("A company merge rule named %s already exists for company %s",
				request.RuleName, request.CompanyId),
		}, http.StatusConflict)
	}

	now := time.Now().UTC().Unix()
	rule := model.CompanyMergeRule{
		RuleId:          uuid.New().String(),
		CompanyId:       request.CompanyId,
		RuleName:        request.RuleName,
		Description:     request.Description,
		RuleBody:        request.RuleBody,
		Priority:        request.Priority,
		IsActive:        request.IsActive,
		OverridesGlobal: request.OverridesGlobal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := mrs.CompanyStore.AddCompanyRule(rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetCompanyRule fetches a company merge rule by its id.
func (mrs *MergeRuleService) GetCompanyRule(ruleId string) (*model.CompanyMergeRule, error) {

	rule, err := mrs.CompanyStore.GetCompanyRule(ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFoundError(ruleId)
	}
	return rule, nil
}

// GetCompanyRulesByCompany fetches all company merge rules for a company.
func (mrs *MergeRuleService) GetCompanyRulesByCompany(companyId string) ([]model.CompanyMergeRule, error) {

	return mrs.CompanyStore.GetCompanyRulesByCompany(companyId)
}

// PatchCompanyRule applies a partial update on a company merge rule.
func (mrs *MergeRuleService) PatchCompanyRule(ruleId string, update model.MergeRuleUpdateRequest) (
	*model.CompanyMergeRule, error) {

	rule, err := mrs.CompanyStore.GetCompanyRule(ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFoundError(ruleId)
	}

	if update.Description != nil {
		rule.Description = *update.Description
	}
	if update.RuleBody != nil {
		rule.RuleBody = *update.RuleBody
	}
	if update.Priority != nil {
		rule.Priority = *update.Priority
	}
	if update.IsActive != nil {
		rule.IsActive = *update.IsActive
	}
	if update.OverridesGlobal != nil {
		rule.OverridesGlobal = *update.OverridesGlobal
	}
	rule.UpdatedAt = time.Now().UTC().Unix()

	if err := mrs.CompanyStore.UpdateCompanyRule(*rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteCompanyRule removes a company merge rule.
func (mrs *MergeRuleService) DeleteCompanyRule(ruleId string) error {

	rule, err := mrs.CompanyStore.GetCompanyRule(ruleId)
	if err != nil {
		return err
	}
	if rule == nil {
		return ruleNotFoundError(ruleId)
	}
	return mrs.CompanyStore.DeleteCompanyRule(ruleId)
}

func ruleNotFoundError(ruleId string) error {

	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.RULE_NOT_FOUND.Code,
		Message:     errors2.RULE_NOT_FOUND.Message,
		Description: fmt.Sprintf("No merge rule found with id: %s", ruleId),
	}, http.StatusNotFound)
}
