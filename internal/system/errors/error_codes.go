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

package errors

const errorPrefix = "MDS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	BEGIN_TRANSACTION = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while starting database transaction.",
	}

	COMMIT_TRANSACTION = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while committing database transaction.",
	}

	ADD_GLOBAL_RULE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while adding global merge rule.",
	}

	FETCH_GLOBAL_RULES = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching global merge rule(s).",
	}

	UPDATE_GLOBAL_RULE = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating global merge rule.",
	}

	DELETE_GLOBAL_RULE = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while deleting global merge rule.",
	}

	ADD_COMPANY_RULE = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while adding company merge rule.",
	}

	FETCH_COMPANY_RULES = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while fetching company merge rule(s).",
	}

	UPDATE_COMPANY_RULE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while updating company merge rule.",
	}

	DELETE_COMPANY_RULE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while deleting company merge rule.",
	}

	RESOLVE_EFFECTIVE_RULES = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while resolving effective merge rules.",
	}

	ADD_MERGE_CANDIDATE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while persisting merge candidate.",
	}

	FETCH_MERGE_CANDIDATES = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while fetching merge candidate(s).",
	}

	UPDATE_MERGE_CANDIDATE = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while updating merge candidate.",
	}

	FETCH_AUDIT_LOGS = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while fetching audit log entries.",
	}

	MATCH_ENGINE_FAILURE = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Match engine evaluation failed.",
	}

	RULE_COMPILATION = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "Error while compiling declarative match rule.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Error while parsing token claims.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Authentication failed.",
	}

	FORBIDDEN = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Insufficient permissions for the requested operation.",
	}

	RULE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Merge rule not found.",
	}

	DUPLICATE_RULE_NAME = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "A merge rule with the same name already exists.",
	}

	MERGE_CANDIDATE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Merge candidate not found.",
	}

	INVALID_STATUS_TRANSITION = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Merge candidate is not in a reviewable state.",
	}

	INVALID_TARGET_STATUS = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Invalid target status for merge candidate review.",
	}

	STALE_CANDIDATE_STATE = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Merge candidate was modified by a concurrent review.",
	}
)
