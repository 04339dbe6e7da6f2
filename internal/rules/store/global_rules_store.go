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

type GlobalRuleStoreInterface interface {
	AddGlobalRule(rule model.GlobalMergeRule) error
	GetGlobalRule(ruleId string) (*model.GlobalMergeRule, error)
	GetGlobalRuleByName(domain, ruleName string) (*model.GlobalMergeRule, error)
	GetGlobalRulesByDomain(domain string) ([]model.GlobalMergeRule, error)
	GetActiveGlobalRulesByDomain(domain string) ([]model.GlobalMergeRule, error)
	UpdateGlobalRule(rule model.GlobalMergeRule) error
	DeleteGlobalRule(ruleId string) error
}

// GlobalRuleStore is the default implementation of the GlobalRuleStoreInterface.
type GlobalRuleStore struct{}

// GetGlobalRuleStore creates a new instance of GlobalRuleStore.
func GetGlobalRuleStore() GlobalRuleStoreInterface {

	return &GlobalRuleStore{}
}

// AddGlobalRule adds a new global merge rule to the database.
func (grs *GlobalRuleStore) AddGlobalRule(rule model.GlobalMergeRule) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for adding global merge rule: %s", rule.RuleName)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.InsertGlobalRule[provider.NewDBProvider().GetDBType()]

	_, err = dbClient.ExecuteQuery(query, rule.RuleId, rule.Domain, rule.RuleName, rule.Description, rule.RuleBody,
		rule.Priority, rule.IsActive, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while adding global merge rule: %s", rule.RuleName)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_GLOBAL_RULE.Code,
			Message:     errors2.ADD_GLOBAL_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Global merge rule: %s added successfully for domain: %s", rule.RuleName, rule.Domain))
	return nil
}

// GetGlobalRule fetches a specific global merge rule by its id. A nil rule
// with a nil error means the rule does not exist.
func (grs *GlobalRuleStore) GetGlobalRule(ruleId string) (*model.GlobalMergeRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching global merge rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetGlobalRule[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, ruleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch global merge rule with rule id: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_GLOBAL_RULES.Code,
			Message:     errors2.FETCH_GLOBAL_RULES.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("No global merge rule found for rule id: %s", ruleId))
		return nil, nil
	}

	rule := buildGlobalRuleFromRow(results[0])
	return &rule, nil
}

// GetGlobalRuleByName fetches the global merge rule owning a name within a
// domain. A nil rule with a nil error means no rule owns the name.
func (grs *GlobalRuleStore) GetGlobalRuleByName(domain, ruleName string) (*model.GlobalMergeRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching global merge rule: %s", ruleName)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetGlobalRuleByName[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, domain, ruleName)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch global merge rule: %s for domain: %s", ruleName, domain)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_GLOBAL_RULES.Code,
			Message:     errors2.FETCH_GLOBAL_RULES.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	rule := buildGlobalRuleFromRow(results[0])
	return &rule, nil
}

// GetGlobalRulesByDomain fetches all global merge rules for a domain, ordered
// by priority descending and rule name ascending.
func (grs *GlobalRuleStore) GetGlobalRulesByDomain(domain string) ([]model.GlobalMergeRule, error) {

	return fetchGlobalRules(scripts.GetGlobalRulesByDomain, domain)
}

// GetActiveGlobalRulesByDomain fetches the active global merge rules for a
// domain, ordered by priority descending and rule name ascending.
func (grs *GlobalRuleStore) GetActiveGlobalRulesByDomain(domain string) ([]model.GlobalMergeRule, error) {

	return fetchGlobalRules(scripts.GetActiveGlobalRulesByDomain, domain)
}

func fetchGlobalRules(queryByDBType map[string]string, domain string) ([]model.GlobalMergeRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching global merge rules for domain: %s", domain)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := queryByDBType[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, domain)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch global merge rules for domain: %s", domain)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_GLOBAL_RULES.Code,
			Message:     errors2.FETCH_GLOBAL_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	rules := []model.GlobalMergeRule{}
	for _, row := range results {
		rules = append(rules, buildGlobalRuleFromRow(row))
	}
	return rules, nil
}

// UpdateGlobalRule updates an existing global merge rule.
func (grs *GlobalRuleStore) UpdateGlobalRule(rule model.GlobalMergeRule) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for updating global merge rule: %s", rule.RuleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.UpdateGlobalRule[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteUpdate(query, rule.Domain, rule.RuleName, rule.Description, rule.RuleBody, rule.Priority,
		rule.IsActive, rule.UpdatedAt, rule.RuleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update global merge rule: %s", rule.RuleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_GLOBAL_RULE.Code,
			Message:     errors2.UPDATE_GLOBAL_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Global merge rule: %s updated successfully", rule.RuleId))
	return nil
}

// DeleteGlobalRule deletes a global merge rule by its id.
func (grs *GlobalRuleStore) DeleteGlobalRule(ruleId string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for deleting global merge rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.DeleteGlobalRule[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteUpdate(query, ruleId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to delete global merge rule: %s", ruleId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_GLOBAL_RULE.Code,
			Message:     errors2.DELETE_GLOBAL_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Global merge rule: %s deleted successfully", ruleId))
	return nil
}

func buildGlobalRuleFromRow(row map[string]interface{}) model.GlobalMergeRule {

	var rule model.GlobalMergeRule
	rule.RuleId = row["rule_id"].(string)
	rule.Domain = row["domain"].(string)
	rule.RuleName = row["rule_name"].(string)
	rule.Description = row["description"].(string)
	rule.RuleBody = row["rule_body"].(string)
	rule.Priority = int(row["priority"].(int64))
	rule.IsActive = row["is_active"].(bool)
	rule.CreatedAt = row["created_at"].(int64)
	rule.UpdatedAt = row["updated_at"].(int64)
	return rule
}
