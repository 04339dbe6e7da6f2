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

package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	rulesservice "github.com/wso2/identity-master-data-service/internal/rules/service"
	"github.com/wso2/identity-master-data-service/internal/system/config"
	"github.com/wso2/identity-master-data-service/internal/system/constants"
	dbprovider "github.com/wso2/identity-master-data-service/internal/system/database/provider"
	"github.com/wso2/identity-master-data-service/internal/system/log"
	"github.com/wso2/identity-master-data-service/internal/system/managers"
)

const (
	configFile = "repository/conf/deployment.yaml"
	schemaFile = "repository/dbscripts/postgres.sql"
)

func main() {
	mdsHome := getMDSHome()

	envFiles, err := filepath.Glob("config/*.env")
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	mdsConfig, err := config.LoadConfig(mdsHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize runtime configurations.
	if err := config.InitializeMDSRuntime(mdsHome, mdsConfig); err != nil {
		stdlog.Fatalf("Failed to initialize runtime configuration: %v", err)
	}

	// Initialize logger
	if err := log.Init(mdsConfig.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	// Initialize database
	initDatabase(mdsHome, mdsConfig)

	// Seed the built-in match rules for the configured domains.
	seedDefaultRules(mdsConfig)

	serverAddr := fmt.Sprintf("%s:%d", mdsConfig.Addr.Host, mdsConfig.Addr.Port)
	mux := enableCORS(initMultiplexer(), mdsConfig.Auth.CORSAllowedOrigins)
	logger.Info("WSO2 MDS starting", log.String("address", serverAddr))

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err))
	}

	logger.Info("WSO2 MDS started", log.String("address", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// initDatabase verifies the data source configuration and applies the schema
// script. The script only creates objects that do not exist yet, so repeated
// startups are safe.
func initDatabase(mdsHome string, mdsConfig *config.Config) {

	logger := log.GetLogger()
	ds := mdsConfig.DataSource
	if ds.Hostname == "" || ds.Port == 0 || ds.Username == "" || ds.Password == "" || ds.Name == "" {
		logger.Fatal("One or more PostgreSQL configuration values are missing")
	}

	dbClient, err := dbprovider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.Fatal("Failed to connect to the database", log.Error(err))
	}
	defer dbClient.Close()

	if err := dbClient.InitDatabase(mdsHome, schemaFile); err != nil {
		logger.Fatal("Failed to apply the database schema", log.Error(err))
	}
	logger.Info("PostgreSQL database initialized successfully from configuration")
}

// seedDefaultRules inserts the built-in match rules as global rules for every
// domain listed under rule_engine.seed_domains. Domains that already own the
// rules are left untouched.
func seedDefaultRules(mdsConfig *config.Config) {

	if len(mdsConfig.RuleEngine.SeedDomains) == 0 {
		return
	}
	if err := rulesservice.GetMergeRuleService().SeedDefaultGlobalRules(mdsConfig.RuleEngine.SeedDomains); err != nil {
		log.GetLogger().Fatal("Failed to seed default global merge rules", log.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getMDSHome() string {

	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("mdsHome", "", "Path to master data service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			stdlog.Fatalf("Failed to get current working directory: %v", dirErr)
		}
		projectHome = dir
	}

	return projectHome
}
