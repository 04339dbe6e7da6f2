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

package store

import (
	"fmt"

	"github.com/wso2/identity-master-data-service/internal/rules/model"
	"github.com/wso2/identity-master-data-service/internal/system/database/provider"
	"github.com/wso2/identity-master-data-service/internal/system/database/scripts"
	errors2 "github.com/wso2/identity-master-data-service/internal/system/errors"
	"github.com/wso2/identity-master-data-service/internal/system/log"
)

type CompanyRuleStoreInterface interface {
	AddCompanyRule(rule model.CompanyMergeRule) error
	GetCompanyRule(ruleId string) (*model.CompanyMergeRule, error)
	GetCompanyRuleByName(companyId, ruleName string) (*model.CompanyMergeRule, error)
	GetCompanyRulesByCompany(companyId string) ([]model.CompanyMergeRule, error)
	GetActiveCompanyRulesByCompany(companyId string) ([]model.CompanyMergeRule, error)
	UpdateCompanyRule(rule model.CompanyMergeRule) error
	DeleteCompanyRule(ruleId string) error
}

// CompanyRuleStore is the default implementation of the CompanyRuleStoreInterface.
type CompanyRuleStore struct{}

// GetCompanyRuleStore creates a new instance of CompanyRuleStore.
func GetCompanyRuleStore() CompanyRuleStoreInterface {

	return &CompanyRuleStore{}
}

// AddCompanyRule adds a new company merge rule to the database.
func (crs *CompanyRuleStore) AddCompanyRule(rule model.CompanyMergeRule) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for adding company merge rule: %s", rule.RuleName)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.InsertCompanyRule[provider.NewDBProvider().GetDBType()]

	_, err = dbClient.ExecuteQuery(query, rule.RuleId, rule.CompanyId, rule.RuleName, rule.Description, rule.RuleBody,
		rule.Priority, rule.IsActive, rule.OverridesGlobal, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while adding company merge rule: %s", rule.RuleName)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_COMPANY_RULE.Code,
			Message:     errors2.ADD_COMPANY_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Company merge rule: %s added successfully for company: %s", rule.RuleName,
		rule.CompanyId))
	return nil
}

// GetCompanyRule fetches a specific company merge rule by its id. A nil rule
// with a nil error means the rule does not exist.
func (crs *CompanyRuleStore) GetCompanyRule(ruleId string) (*model.CompanyMergeRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching company merge rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetCompanyRule[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, ruleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch company merge rule with rule id: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_COMPANY_RULES.Code,
			Message:     errors2.FETCH_COMPANY_RULES.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("No company merge rule found for rule id: %s", ruleId))
		return nil, nil
	}

	rule := buildCompanyRuleFromRow(results[0])
	return &rule, nil
}

// GetCompanyRuleByName fetches the company merge rule owning a name within a
// company. A nil rule with a nil error means no rule owns the name.
func (crs *CompanyRuleStore) GetCompanyRuleByName(companyId, ruleName string) (*model.CompanyMergeRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching company merge rule: %s", ruleName)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetCompanyRuleByName[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, companyId, ruleName)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch company merge rule: %s for company: %s", ruleName, companyId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_COMPANY_RULES.Code,
			Message:     errors2.FETCH_COMPANY_RULES.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	rule := buildCompanyRuleFromRow(results[0])
	return &rule, nil
}

// GetCompanyRulesByCompany fetches all company merge rules for a company,
// ordered by priority descending and rule name ascending.
func (crs *CompanyRuleStore) GetCompanyRulesByCompany(companyId string) ([]model.CompanyMergeRule, error) {

	return fetchCompanyRules(scripts.GetCompanyRulesByCompany, companyId)
}

// GetActiveCompanyRulesByCompany fetches the active company merge rules for a
// company, ordered by priority descending and rule name ascending.
func (crs *CompanyRuleStore) GetActiveCompanyRulesByCompany(companyId string) ([]model.CompanyMergeRule, error) {

	return fetchCompanyRules(scripts.GetActiveCompanyRulesByCompany, companyId)
}

func fetchCompanyRules(queryByDBType map[string]string, companyId string) ([]model.CompanyMergeRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching company merge rules for company: %s",
			companyId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := queryByDBType[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, companyId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch company merge rules for company: %s", companyId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_COMPANY_RULES.Code,
			Message:     errors2.FETCH_COMPANY_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	rules := []model.CompanyMergeRule{}
	for _, row := range results {
		rules = append(rules, buildCompanyRuleFromRow(row))
	}
	return rules, nil
}

// UpdateCompanyRule updates an existing company merge rule.
func (crs *CompanyRuleStore) UpdateCompanyRule(rule model.CompanyMergeRule) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for updating company merge rule: %s", rule.RuleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.UpdateCompanyRule[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteUpdate(query, rule.CompanyId, rule.RuleName, rule.Description, rule.RuleBody,
		rule.Priority, rule.IsActive, rule.OverridesGlobal, rule.UpdatedAt, rule.RuleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update company merge rule: %s", rule.RuleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_COMPANY_RULE.Code,
			Message:     errors2.UPDATE_COMPANY_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Company merge rule: %s updated successfully", rule.RuleId))
	return nil
}

// DeleteCompanyRule deletes a company merge rule by its id.
func (crs *CompanyRuleStore) DeleteCompanyRule(ruleId string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for deleting company merge rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.DeleteCompanyRule[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteUpdate(query, ruleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete company merge rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_COMPANY_RULE.Code,
			Message:     errors2.DELETE_COMPANY_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Company merge rule: %s deleted successfully", ruleId))
	return nil
}

func buildCompanyRuleFromRow(row map[string]interface{}) model.CompanyMergeRule {

	var rule model.CompanyMergeRule
	rule.RuleId = row["rule_id"].(string)
	rule.CompanyId = row["company_id"].(string)
	rule.RuleName = row["rule_name"].(string)
	rule.Description = row["description"].(string)
	rule.RuleBody = row["rule_body"].(string)
	rule.Priority = int(row["priority"].(int64))
	rule.IsActive = row["is_active"].(bool)
	rule.OverridesGlobal = row["overrides_global"].(bool)
	rule.CreatedAt = row["created_at"].(int64)
	rule.UpdatedAt = row["updated_at"].(int64)
	return rule
}
